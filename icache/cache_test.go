package icache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcverify/emu"
	"github.com/sarchlab/ppcverify/icache"
)

var _ = Describe("Cache", func() {
	var (
		c      *icache.Cache
		memory *emu.Memory
	)

	BeforeEach(func() {
		memory = emu.NewMemory()
		// Small cache for testing: 4KB, 4-way, 64B lines
		config := icache.Config{
			Size:          4 * 1024,
			Associativity: 4,
			BlockSize:     64,
		}
		c = icache.New(config, memory)
	})

	Describe("Fetch", func() {
		It("should miss on a cold cache", func() {
			memory.Write32(0x1000, 0xDEADBEEF)

			word, hit := c.Fetch(0x1000)
			Expect(hit).To(BeFalse())
			Expect(word).To(Equal(uint32(0xDEADBEEF)))

			stats := c.Stats()
			Expect(stats.Fetches).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(0)))
		})

		It("should hit on a cached line", func() {
			memory.Write32(0x1000, 0xCAFEBABE)

			c.Fetch(0x1000)
			word, hit := c.Fetch(0x1000)

			Expect(hit).To(BeTrue())
			Expect(word).To(Equal(uint32(0xCAFEBABE)))
			Expect(c.Stats().Hits).To(Equal(uint64(1)))
		})

		It("should hit on other words of the same line", func() {
			memory.Write32(0x1000, 0x11111111)
			memory.Write32(0x1004, 0x22222222)

			c.Fetch(0x1000)
			word, hit := c.Fetch(0x1004)

			Expect(hit).To(BeTrue())
			Expect(word).To(Equal(uint32(0x22222222)))
		})

		It("should keep returning the cached word after memory changes", func() {
			memory.Write32(0x1000, 0x11111111)
			c.Fetch(0x1000)

			memory.Write32(0x1000, 0x22222222)
			word, hit := c.Fetch(0x1000)

			Expect(hit).To(BeTrue())
			Expect(word).To(Equal(uint32(0x11111111)))
		})
	})

	Describe("Invalidate", func() {
		It("should refetch from memory after invalidation", func() {
			memory.Write32(0x1000, 0x11111111)
			c.Fetch(0x1000)
			memory.Write32(0x1000, 0x22222222)

			c.Invalidate(0x1000)
			word, hit := c.Fetch(0x1000)

			Expect(hit).To(BeFalse())
			Expect(word).To(Equal(uint32(0x22222222)))
			Expect(c.Stats().Invalidations).To(Equal(uint64(1)))
		})

		It("should not count invalidation of absent lines", func() {
			c.Invalidate(0x8000)

			Expect(c.Stats().Invalidations).To(BeZero())
		})

		It("should invalidate every line a range touches", func() {
			c.Fetch(0x1000)
			c.Fetch(0x1040)
			c.Fetch(0x1080)

			c.InvalidateRange(0x103C, 8)

			Expect(c.Stats().Invalidations).To(Equal(uint64(2)))
			_, hit := c.Fetch(0x1080)
			Expect(hit).To(BeTrue())
		})

		It("should ignore empty ranges", func() {
			c.Fetch(0x1000)
			c.InvalidateRange(0x1000, 0)

			_, hit := c.Fetch(0x1000)
			Expect(hit).To(BeTrue())
		})
	})

	Describe("Eviction", func() {
		It("should evict the least recently used line of a full set", func() {
			// 16 sets; these all map to set 0
			c.Fetch(0x0000)
			c.Fetch(0x0400)
			c.Fetch(0x0800)
			c.Fetch(0x0C00)

			c.Fetch(0x0400)
			c.Fetch(0x0800)
			c.Fetch(0x0C00)

			_, hit := c.Fetch(0x1000)
			Expect(hit).To(BeFalse())
			Expect(c.Stats().Evictions).To(Equal(uint64(1)))

			_, hit = c.Fetch(0x0400)
			Expect(hit).To(BeTrue())
			_, hit = c.Fetch(0x0000)
			Expect(hit).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should drop all lines and statistics", func() {
			c.Fetch(0x1000)
			c.Reset()

			Expect(c.Stats()).To(Equal(icache.Statistics{}))
			_, hit := c.Fetch(0x1000)
			Expect(hit).To(BeFalse())
		})
	})

	Describe("DefaultConfig", func() {
		It("should describe a 32KB 8-way cache with 32B lines", func() {
			config := icache.DefaultConfig()
			Expect(config.Size).To(Equal(32 * 1024))
			Expect(config.Associativity).To(Equal(8))
			Expect(config.BlockSize).To(Equal(32))
		})
	})
})
