package core

// CreateDefaultWorkerPool creates and starts a pool with one worker per CPU.
func CreateDefaultWorkerPool() *WorkerPool {
	pool := NewWorkerPool(0)
	pool.Start()
	return pool
}
