package source

import (
	"github.com/gosourcetree/sourcetree/internal/chunkstream"
	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/helpers"
	"github.com/gosourcetree/sourcetree/internal/index"
	"github.com/gosourcetree/sourcetree/internal/sourcemap"
)

// ConcatSource concatenates child sources left to right. Its own Text()
// uses esbuild's Joiner to avoid the repeated-reallocation
// cost of naive string concatenation across many children.
type ConcatSource struct {
	children []Source
}

// NewConcatSource builds a ConcatSource over children, in order.
func NewConcatSource(children ...Source) *ConcatSource {
	return &ConcatSource{children: append([]Source(nil), children...)}
}

// Add appends a child to the end of the source list.
func (c *ConcatSource) Add(child Source) {
	c.children = append(c.children, child)
}

func (c *ConcatSource) Text() string {
	var j helpers.Joiner
	for _, child := range c.children {
		j.AddString(child.Text())
	}
	return string(j.Done())
}

func (c *ConcatSource) Buffer() []byte {
	var j helpers.Joiner
	for _, child := range c.children {
		j.AddBytes(child.Buffer())
	}
	return j.Done()
}

func (c *ConcatSource) Size() int {
	total := 0
	for _, child := range c.children {
		total += child.Size()
	}
	return total
}

func (c *ConcatSource) Hash() uint64 {
	var h uint64
	for _, child := range c.children {
		h = combineHash(h, child.Hash())
	}
	return h
}

func (c *ConcatSource) Map(opts config.MapOptions) (*sourcemap.SourceMap, error) {
	return mapFromStream(c, opts)
}

// StreamChunks drives children left to right, carrying the running
// generated line/column offset and remapping each child's local
// source_index/name_index into a shared global index space, allocated
// on first use.
func (c *ConcatSource) StreamChunks(opts config.MapOptions, onChunk chunkstream.OnChunk, onSource chunkstream.OnSource, onName chunkstream.OnName) (chunkstream.GeneratedInfo, error) {
	lineOffset := 0
	columnOffset := 0
	globalSourceIndex := map[sourceKey]int{}
	globalNameIndex := map[nameKey]int{}
	nextSourceIndex := 0
	nextNameIndex := 0

	for ci, child := range c.children {
		sourceMapping := map[int]int{}
		nameMapping := map[int]int{}

		childFinalSource := opts.FinalSource && ci == len(c.children)-1

		info, err := child.StreamChunks(
			config.MapOptions{Columns: opts.Columns, FinalSource: childFinalSource},
			func(text string, m sourcemap.Mapping) error {
				m.GeneratedLine += lineOffset
				if m.GeneratedLine == lineOffset+1 {
					m.GeneratedColumn += columnOffset
				}
				if m.Original != nil {
					global, ok := sourceMapping[m.Original.SourceIndex]
					if ok {
						m.Original.SourceIndex = global
					}
					if m.Original.NameIndex.IsValid() {
						if g, ok := nameMapping[int(m.Original.NameIndex.GetIndex())]; ok {
							m.Original.NameIndex = index.Make32(uint32(g))
						}
					}
				}
				return onChunk(text, m)
			},
			func(localIdx int, name string, content *string) error {
				key := sourceKey{child: ci, name: name}
				global, ok := globalSourceIndex[key]
				if !ok {
					global = nextSourceIndex
					nextSourceIndex++
					globalSourceIndex[key] = global
					if err := onSource(global, name, content); err != nil {
						return err
					}
				}
				sourceMapping[localIdx] = global
				return nil
			},
			func(localIdx int, name string) error {
				key := nameKey{child: ci, name: name}
				global, ok := globalNameIndex[key]
				if !ok {
					global = nextNameIndex
					nextNameIndex++
					globalNameIndex[key] = global
					if err := onName(global, name); err != nil {
						return err
					}
				}
				nameMapping[localIdx] = global
				return nil
			},
		)
		if err != nil {
			return chunkstream.GeneratedInfo{}, err
		}

		// info.GeneratedColumn is 0 if the child ended in a newline, or
		// the length of the child's final line otherwise. A child that
		// never left its first line continues the current generated line,
		// so its final column adds to the running offset; otherwise it
		// replaces it.
		if info.GeneratedLine == 1 {
			columnOffset += info.GeneratedColumn
		} else {
			columnOffset = info.GeneratedColumn
		}
		lineOffset += info.GeneratedLine - 1
	}

	return chunkstream.GeneratedInfo{GeneratedLine: lineOffset + 1, GeneratedColumn: columnOffset}, nil
}

type sourceKey struct {
	child int
	name  string
}

type nameKey struct {
	child int
	name  string
}

var _ Source = (*ConcatSource)(nil)
