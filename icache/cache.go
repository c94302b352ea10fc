// Package icache provides an instruction cache for the emulator, built on
// the Akita cache directory.
//
// The emulator fetches every instruction through the cache. Code written
// into memory after it has been cached is not visible until the covering
// lines are invalidated, which is what real PowerPC parts require of
// self-modifying code as well.
package icache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
}

// DefaultConfig returns the configuration of an MPC7400-class L1
// instruction cache: 32KB, 8-way, 32B lines.
func DefaultConfig() Config {
	return Config{
		Size:          32 * 1024,
		Associativity: 8,
		BlockSize:     32,
	}
}

// Statistics holds cache statistics.
type Statistics struct {
	Fetches       uint64
	Hits          uint64
	Misses        uint64
	Evictions     uint64
	Invalidations uint64
}

// BackingStore is the memory the cache fills lines from.
type BackingStore interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint64, size int) []byte
}

// Cache is a read-only instruction cache.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Line storage, indexed by (setID * associativity + wayID)
	dataStore [][]byte

	stats Statistics

	backing BackingStore
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint64) uint64 {
	return (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

// Fetch reads the big-endian instruction word at addr, filling the line on
// a miss. addr must be word aligned.
func (c *Cache) Fetch(addr uint32) (word uint32, hit bool) {
	c.stats.Fetches++

	a := uint64(addr)
	block := c.directory.Lookup(0, c.blockAddr(a))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return extractWord(c.dataStore[c.blockIndex(block)], a%uint64(c.config.BlockSize)), true
	}

	c.stats.Misses++
	data := c.fill(a)
	return extractWord(data, a%uint64(c.config.BlockSize)), false
}

// fill loads the line holding addr and returns its storage.
func (c *Cache) fill(addr uint64) []byte {
	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return nil
	}
	victimData := c.dataStore[c.blockIndex(victim)]
	if victim.IsValid {
		c.stats.Evictions++
	}

	if c.backing != nil {
		copy(victimData, c.backing.Read(blockAddr, c.config.BlockSize))
	} else {
		clear(victimData)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victimData
}

// Invalidate marks the line holding addr as invalid.
func (c *Cache) Invalidate(addr uint64) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
		c.stats.Invalidations++
	}
}

// InvalidateRange invalidates every line overlapping [addr, addr+size).
func (c *Cache) InvalidateRange(addr uint64, size int) {
	if size <= 0 {
		return
	}
	end := addr + uint64(size)
	for line := c.blockAddr(addr); line < end; line += uint64(c.config.BlockSize) {
		c.Invalidate(line)
	}
}

// Reset invalidates all cache lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

func extractWord(data []byte, offset uint64) uint32 {
	if int(offset)+4 > len(data) {
		return 0
	}
	return uint32(data[offset])<<24 |
		uint32(data[offset+1])<<16 |
		uint32(data[offset+2])<<8 |
		uint32(data[offset+3])
}
