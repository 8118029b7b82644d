package scheduler_test

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/poolserve/pkg/scheduler"
)

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("NewScheduler", func() {
		It("should panic when the number of workers is zero", func() {
			Expect(func() { scheduler.NewScheduler(0) }).To(Panic())
		})

		It("should panic when the number of workers is negative", func() {
			Expect(func() { scheduler.NewScheduler(-3) }).To(Panic())
		})

		DescribeTable("should start the requested number of workers",
			func(size int) {
				s = scheduler.NewScheduler(size)

				Expect(s.Size()).To(Equal(size))
				workers := s.Workers()
				Expect(workers).To(HaveLen(size))
				for i, w := range workers {
					Expect(w.ID).To(Equal(i))
					Expect(w.State).To(Equal(scheduler.WorkerStateWaiting))
				}
				Expect(s.Stats().Idle()).To(Equal(size))
			},
			Entry("one worker", 1),
			Entry("four workers", 4),
			Entry("sixty-four workers", 64),
		)

		It("should run jobs on every worker", func() {
			s = scheduler.NewScheduler(4)

			started := make(chan struct{}, 4)
			unblock := make(chan struct{})
			for range 4 {
				Expect(s.Execute(func() {
					started <- struct{}{}
					<-unblock
				})).To(Succeed())
			}

			for range 4 {
				Eventually(started, time.Second).Should(Receive())
			}
			Expect(s.Stats().Busy).To(Equal(4))
			for _, w := range s.Workers() {
				Expect(w.State).To(Equal(scheduler.WorkerStateExecuting))
			}
			close(unblock)

			Eventually(func() int { return s.Stats().Busy }, time.Second).Should(BeZero())
		})
	})

	Describe("Execute", func() {
		It("should run a submitted job", func() {
			s = scheduler.NewScheduler(1)

			done := make(chan struct{})
			err := s.Execute(func() { close(done) })

			Expect(err).NotTo(HaveOccurred())
			Eventually(done, 2*time.Second).Should(BeClosed())
		})

		It("should reject a nil job", func() {
			s = scheduler.NewScheduler(1)

			Expect(s.Execute(nil)).To(MatchError(scheduler.ErrNilJob))
			Expect(s.Stats().Submitted).To(BeZero())
		})

		// Given a live pool with several workers
		// When many jobs are submitted
		// Then each job runs exactly once
		It("should execute every job exactly once", func() {
			s = scheduler.NewScheduler(8)

			const total = 1000
			runs := make([]atomic.Int32, total)
			var wg sync.WaitGroup
			wg.Add(total)
			for i := range total {
				Expect(s.Execute(func() {
					defer wg.Done()
					runs[i].Add(1)
				})).To(Succeed())
			}
			wg.Wait()

			for i := range runs {
				Expect(runs[i].Load()).To(BeEquivalentTo(1), "job %d", i)
			}
			Eventually(func() int64 { return s.Stats().Executed }, time.Second).Should(BeEquivalentTo(total))
			Expect(s.Stats().Submitted).To(BeEquivalentTo(total))
		})

		It("should accept jobs from concurrent submitters", func() {
			s = scheduler.NewScheduler(4)

			var counter atomic.Int64
			var submit sync.WaitGroup
			for range 10 {
				submit.Add(1)
				go func() {
					defer submit.Done()
					for range 100 {
						_ = s.Execute(func() { counter.Add(1) })
					}
				}()
			}
			submit.Wait()

			Eventually(counter.Load, 2*time.Second).Should(BeEquivalentTo(1000))
		})

		It("should start jobs in submission order", func() {
			s = scheduler.NewScheduler(1)

			var mu sync.Mutex
			var order []int
			unblock := make(chan struct{})
			Expect(s.Execute(func() { <-unblock })).To(Succeed())
			for i := range 20 {
				Expect(s.Execute(func() {
					mu.Lock()
					order = append(order, i)
					mu.Unlock()
				})).To(Succeed())
			}
			close(unblock)

			Eventually(func() int {
				mu.Lock()
				defer mu.Unlock()
				return len(order)
			}, 2*time.Second).Should(Equal(20))
			for i, v := range order {
				Expect(v).To(Equal(i))
			}
		})

		It("should not block when the workers are busy", func() {
			s = scheduler.NewScheduler(1)

			unblock := make(chan struct{})
			defer close(unblock)
			Expect(s.Execute(func() { <-unblock })).To(Succeed())
			Eventually(func() int { return s.Stats().Busy }, time.Second).Should(Equal(1))

			submitted := make(chan struct{})
			go func() {
				for range 10000 {
					_ = s.Execute(func() {})
				}
				close(submitted)
			}()

			Eventually(submitted, 2*time.Second).Should(BeClosed())
			Expect(s.Stats().Queued).To(Equal(10000))
		})

		It("should return ErrChannelClosed after Close", func() {
			s = scheduler.NewScheduler(1)
			s.Close()

			err := s.Execute(func() {})

			Expect(err).To(MatchError(scheduler.ErrChannelClosed))
			s = nil
		})
	})

	Describe("Run work", func() {
		// Given a pool of two workers
		// When five jobs each sleep 50ms and append their index
		// Then every index is logged once and at most two jobs ran at a time
		It("should run five sleeping jobs on two workers", func() {
			s = scheduler.NewScheduler(2)

			var (
				mu      sync.Mutex
				log     []int
				running atomic.Int32
				peak    atomic.Int32
				wg      sync.WaitGroup
			)

			wg.Add(5)
			for i := range 5 {
				Expect(s.Execute(func() {
					defer wg.Done()
					n := running.Add(1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(50 * time.Millisecond)
					mu.Lock()
					log = append(log, i)
					mu.Unlock()
					running.Add(-1)
				})).To(Succeed())
			}
			wg.Wait()

			Expect(log).To(ConsistOf(0, 1, 2, 3, 4))
			Expect(peak.Load()).To(BeNumerically("<=", 2))
		})
	})

	Describe("Panic recovery", func() {
		It("should keep the worker alive when a job panics", func() {
			s = scheduler.NewScheduler(1)

			Expect(s.Execute(func() { panic("boom") })).To(Succeed())

			done := make(chan struct{})
			Expect(s.Execute(func() { close(done) })).To(Succeed())

			Eventually(done, 2*time.Second).Should(BeClosed())
			Expect(s.Stats().Panicked).To(BeEquivalentTo(1))
			Expect(s.Stats().Workers).To(Equal(1))
		})

		It("should not affect jobs running on other workers", func() {
			s = scheduler.NewScheduler(3)

			unblock := make(chan struct{})
			finished := make(chan int, 2)
			for i := range 2 {
				Expect(s.Execute(func() {
					<-unblock
					finished <- i
				})).To(Succeed())
			}
			Expect(s.Execute(func() { panic("boom") })).To(Succeed())

			Eventually(func() int64 { return s.Stats().Panicked }, time.Second).Should(BeEquivalentTo(1))
			close(unblock)

			Eventually(finished, time.Second).Should(Receive())
			Eventually(finished, time.Second).Should(Receive())
			Eventually(func() int { return s.Stats().Idle() }, time.Second).Should(Equal(3))
		})
	})

	Describe("AddWork", func() {
		It("should add work and return a future", func() {
			s = scheduler.NewScheduler(1)

			work := func(ctx context.Context) (any, error) {
				return "done", nil
			}

			future := s.AddWork(work)
			Expect(future).NotTo(BeNil())

			var result scheduler.Result[any]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Data).To(Equal("done"))
		})

		It("should report a panic as an error result", func() {
			s = scheduler.NewScheduler(1)

			future := s.AddWork(func(ctx context.Context) (any, error) {
				panic("boom")
			})

			var result scheduler.Result[any]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(ContainSubstring("worker panicked: boom")))
		})

		It("should cancel work via future.Stop()", func() {
			s = scheduler.NewScheduler(1)

			cancelled := make(chan bool, 1)
			work := func(ctx context.Context) (any, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			}

			future := s.AddWork(work)
			time.Sleep(100 * time.Millisecond)
			future.Stop()

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})

		It("should cancel work when scheduler is closed", func() {
			s = scheduler.NewScheduler(1)

			cancelled := make(chan bool, 1)
			work := func(ctx context.Context) (any, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			}

			s.AddWork(work)
			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})

		It("should return ErrChannelClosed when AddWork is called after Close", func() {
			s = scheduler.NewScheduler(1)
			s.Close()

			future := s.AddWork(func(ctx context.Context) (any, error) {
				return "done", nil
			})

			var result scheduler.Result[any]
			Eventually(future.C(), 1*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(scheduler.ErrChannelClosed))
			s = nil
		})
	})

	Describe("Close behavior", func() {
		It("should wait for in-flight work to finish on Close", func() {
			s = scheduler.NewScheduler(1)

			started := make(chan struct{})
			unblock := make(chan struct{})
			Expect(s.Execute(func() {
				close(started)
				<-unblock
			})).To(Succeed())
			Eventually(started, 1*time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				s.Close()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(closeDone, 1*time.Second).Should(BeClosed())
			s = nil // prevent AfterEach from closing again
		})

		// Given ten queued jobs and two workers busy with the first two
		// When the scheduler is closed
		// Then the two dequeued jobs complete and the other eight never run
		It("should finish dequeued jobs and discard the rest", func() {
			s = scheduler.NewScheduler(2)

			var ran atomic.Int32
			started := make(chan struct{}, 10)
			unblock := make(chan struct{})
			for range 10 {
				Expect(s.Execute(func() {
					started <- struct{}{}
					<-unblock
					ran.Add(1)
				})).To(Succeed())
			}
			Eventually(started, time.Second).Should(Receive())
			Eventually(started, time.Second).Should(Receive())

			closeDone := make(chan struct{})
			go func() {
				s.Close()
				close(closeDone)
			}()

			Eventually(func() int64 { return s.Stats().Discarded }, time.Second).Should(BeEquivalentTo(8))
			close(unblock)
			Eventually(closeDone, time.Second).Should(BeClosed())

			Expect(ran.Load()).To(BeEquivalentTo(2))
			Consistently(ran.Load, 200*time.Millisecond).Should(BeEquivalentTo(2))
			Expect(s.Stats().Queued).To(BeZero())
			for _, w := range s.Workers() {
				Expect(w.State).To(Equal(scheduler.WorkerStateStopped))
			}
			s = nil
		})

		It("should resolve queued futures with ErrJobDiscarded", func() {
			s = scheduler.NewScheduler(1)

			unblock := make(chan struct{})
			Expect(s.Execute(func() { <-unblock })).To(Succeed())
			Eventually(func() int { return s.Stats().Busy }, time.Second).Should(Equal(1))

			future := s.AddWork(func(ctx context.Context) (any, error) {
				return "never", nil
			})

			go s.Close()

			var result scheduler.Result[any]
			Eventually(future.C(), time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(scheduler.ErrJobDiscarded))
			close(unblock)
		})

		It("should be idempotent", func() {
			s = scheduler.NewScheduler(2)
			s.Close()
			s.Close()
		})
	})

	Describe("Goroutine cleanup", func() {
		It("should not leak goroutines after Close under load", func() {
			base := runtime.NumGoroutine()
			s = scheduler.NewScheduler(4)

			work := func(ctx context.Context) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}

			for i := 0; i < 200; i++ {
				s.AddWork(work)
			}

			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})
})
