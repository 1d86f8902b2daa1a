package internal

import "sync"

type DoneChan chan struct{}

type DoneFunc func() DoneChan

// WrapWaitGroup returns a DoneChan that closes once wg.Wait returns.
func WrapWaitGroup(wg *sync.WaitGroup) DoneChan {
	ret := make(DoneChan)
	go func() {
		wg.Wait()
		close(ret)
	}()
	return ret
}

// Combine returns a DoneChan that closes once both first and second have
// closed, used to join unrelated shutdown signals (for example a
// worker's pull-loop stop and its handler-pool stop).
func Combine(first DoneChan, second DoneChan) DoneChan {
	ret := make(DoneChan)
	go func() {
		<-first
		<-second
		close(ret)
	}()
	return ret
}
