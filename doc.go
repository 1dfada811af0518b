// Package corotask provides a general-purpose, multi-threaded coroutine
// runtime: Task/Promise handles, a work-stealing scheduler, a timer
// subsystem, cooperative cancellation, and awaitable combinators.
//
// # Architecture
//
// Go has no native stackless-coroutine primitive, so every [Task] body
// runs on its own goroutine; suspension points (awaitables such as
// [SleepFor], [Yield], and [AsyncPromise.Await]) park that goroutine on a
// channel read, and the [Runtime]'s scheduler governs only the order in
// which those parked continuations are woken, never by resuming them
// inline on the caller that triggered the wakeup. Workers pull ready
// continuations from per-worker work-stealing deques
// (lockfree.Deque) or the shared overflow queue (lockfree.Queue), and a
// [loadBalancer] (round-robin with periodic full-load rescans) decides
// which worker a new continuation lands on.
//
// # Usage
//
//	rt, err := corotask.New(corotask.WithWorkerCount(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(context.Background())
//
//	task := corotask.Spawn(rt, func(ctx context.Context, token *corotask.CancellationToken) (int, error) {
//	    if err := corotask.SleepFor(ctx, rt, 10*time.Millisecond); err != nil {
//	        return 0, err
//	    }
//	    return 42, nil
//	})
//
//	result, err := corotask.SyncWait(rt, &task)
//
// # Cancellation
//
// [CancellationSource]/[CancellationToken] follow the same shape as the
// W3C AbortController/AbortSignal model, with a bounded (16-slot)
// lock-free callback registry rather than an unbounded handler list.
//
// # Error Types
//
// Every terminal Task error is an [*Error], classified by [ErrorKind]. Task
// bodies that want explicit, allocation-light success/failure propagation
// can specialize their return type to [Result].
package corotask
