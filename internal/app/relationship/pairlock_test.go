package relationship

import (
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairLocks_OrderIndependent(t *testing.T) {
	pl := newPairLocks()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	var counter, max int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		x, y := a, b
		if i%2 == 1 {
			x, y = b, a
		}
		go func() {
			defer wg.Done()
			unlock := pl.Lock(x, y)
			defer unlock()
			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()
			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if max != 1 {
		t.Errorf("max concurrent holders = %d, want 1 regardless of argument order", max)
	}
}

func TestPairLocks_DistinctPairsIndependent(t *testing.T) {
	pl := newPairLocks()
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	unlockAB := pl.Lock(a, b)
	done := make(chan struct{})
	go func() {
		unlockAC := pl.Lock(a, c)
		unlockAC()
		close(done)
	}()
	<-done
	unlockAB()
}
