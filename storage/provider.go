package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/tallworlds/cubic/world"
	"github.com/zeebo/xxh3"
)

const (
	keyPrefixCube = 'c'
	cubeVersion   = 1

	flagBlank = 1 << 0

	headerSize  = 10
	payloadSize = 4096 * 4
)

// ErrCorrupt is returned when a stored cube record cannot be decoded.
var ErrCorrupt = errors.New("corrupt cube record")

// Provider persists cubes in a leveldb database.
type Provider struct {
	db *leveldb.DB
}

// Open opens or creates the database at the path passed.
func Open(path string) (*Provider, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{Compression: opt.SnappyCompression})
	if err != nil {
		return nil, fmt.Errorf("open cube database: %w", err)
	}
	return &Provider{db: db}, nil
}

// New returns a Provider using an already opened database.
func New(db *leveldb.DB) *Provider {
	return &Provider{db: db}
}

// SaveCube writes a cube to the database, replacing any previous record.
func (p *Provider) SaveCube(c *world.Cube) error {
	if err := p.db.Put(cubeKey(c.Pos()), encodeCube(c), nil); err != nil {
		return fmt.Errorf("save cube %v: %w", c.Pos(), err)
	}
	return nil
}

// LoadCube reads the cube at the position passed. ok is false if no cube was stored there.
func (p *Provider) LoadCube(pos protocol.SubChunkPos) (c *world.Cube, ok bool, err error) {
	data, err := p.db.Get(cubeKey(pos), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("load cube %v: %w", pos, err)
	}
	c, err = decodeCube(pos, data)
	if err != nil {
		return nil, false, fmt.Errorf("load cube %v: %w", pos, err)
	}
	return c, true, nil
}

// DeleteCube removes the cube at the position passed from the database.
func (p *Provider) DeleteCube(pos protocol.SubChunkPos) error {
	if err := p.db.Delete(cubeKey(pos), nil); err != nil {
		return fmt.Errorf("delete cube %v: %w", pos, err)
	}
	return nil
}

// Close closes the underlying database.
func (p *Provider) Close() error {
	return p.db.Close()
}

func cubeKey(pos protocol.SubChunkPos) []byte {
	key := make([]byte, 13)
	key[0] = keyPrefixCube
	binary.LittleEndian.PutUint32(key[1:], uint32(pos[0]))
	binary.LittleEndian.PutUint32(key[5:], uint32(pos[1]))
	binary.LittleEndian.PutUint32(key[9:], uint32(pos[2]))
	return key
}

// encodeCube encodes a cube as a version byte, a flags byte, an xxh3 checksum of the flags and payload and
// the runtime IDs of all blocks.
func encodeCube(c *world.Cube) []byte {
	buf := make([]byte, headerSize+payloadSize)
	buf[0] = cubeVersion
	if c.Blank() {
		buf[1] |= flagBlank
	}
	payload := buf[headerSize:]
	for x := uint8(0); x < 16; x++ {
		for z := uint8(0); z < 16; z++ {
			for y := uint8(0); y < 16; y++ {
				binary.LittleEndian.PutUint32(payload[blockIndex(x, y, z)*4:], c.Block(x, y, z))
			}
		}
	}
	binary.LittleEndian.PutUint64(buf[2:], checksum(buf))
	return buf
}

// checksum hashes the version and flags of an encoded cube together with its payload.
func checksum(data []byte) uint64 {
	h := xxh3.New()
	_, _ = h.Write(data[:2])
	_, _ = h.Write(data[headerSize:])
	return h.Sum64()
}

func decodeCube(pos protocol.SubChunkPos, data []byte) (*world.Cube, error) {
	if len(data) != headerSize+payloadSize {
		return nil, fmt.Errorf("%w: unexpected length %d", ErrCorrupt, len(data))
	}
	if data[0] != cubeVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorrupt, data[0])
	}
	payload := data[headerSize:]
	if sum := binary.LittleEndian.Uint64(data[2:]); sum != checksum(data) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	if data[1]&flagBlank != 0 {
		return world.NewBlankCube(pos), nil
	}

	c := world.NewCube(pos)
	for x := uint8(0); x < 16; x++ {
		for z := uint8(0); z < 16; z++ {
			for y := uint8(0); y < 16; y++ {
				if rid := binary.LittleEndian.Uint32(payload[blockIndex(x, y, z)*4:]); rid != world.AirRuntimeID {
					c.SetBlock(x, y, z, rid)
				}
			}
		}
	}
	return c, nil
}

func blockIndex(x, y, z uint8) int {
	return int(x)<<8 | int(z)<<4 | int(y)
}
