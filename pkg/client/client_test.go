package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/poolserve/internal/handlers"
	"github.com/kubev2v/poolserve/pkg/client"
	"github.com/kubev2v/poolserve/pkg/scheduler"
)

var _ = Describe("Client", func() {
	var (
		ctx   context.Context
		sched *scheduler.Scheduler
		srv   *httptest.Server
		c     *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		sched = scheduler.NewScheduler(3)

		router := gin.New()
		handlers.RegisterHandlers(router.Group("/api/v1"), handlers.New(sched))
		srv = httptest.NewServer(router)

		var err error
		c, err = client.NewClient(srv.URL, time.Second)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		srv.Close()
		sched.Close()
	})

	Context("PoolStatus", func() {
		// Given a scheduler that executed two jobs
		// When the client asks for the pool status
		// Then it receives the counters and every worker
		It("should return the pool status", func() {
			// Arrange
			for range 2 {
				Expect(sched.Execute(func() {})).To(Succeed())
			}
			Eventually(func() int64 { return sched.Stats().Executed }, time.Second).Should(BeEquivalentTo(2))

			// Act
			status, err := c.PoolStatus(ctx)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Workers).To(Equal(3))
			Expect(status.Executed).To(BeEquivalentTo(2))
			Expect(status.States).To(HaveLen(3))
		})

		It("should report an unreachable server", func() {
			srv.Close()

			_, err := c.PoolStatus(ctx)

			Expect(err).To(MatchError(client.ErrAdminUnavailable))
		})

		It("should report unexpected status codes", func() {
			other := httptest.NewServer(http.NotFoundHandler())
			defer other.Close()
			c, err := client.NewClient(other.URL, time.Second)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.PoolStatus(ctx)

			Expect(err).To(MatchError(ContainSubstring("unexpected response: 404")))
		})
	})

	Context("Health", func() {
		It("should succeed against a live server", func() {
			Expect(c.Health(ctx)).To(Succeed())
		})
	})

	Context("NewClient", func() {
		It("should reject an empty base url", func() {
			_, err := client.NewClient("", time.Second)

			Expect(err).To(HaveOccurred())
		})

		It("should accept an address without a scheme", func() {
			addr := srv.Listener.Addr().String()
			c, err := client.NewClient(addr, time.Second)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Health(ctx)).To(Succeed())
		})
	})
})
