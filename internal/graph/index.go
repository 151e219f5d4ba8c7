package graph

import (
	"path"

	"github.com/nao1215/navcheck/internal/model"
)

// Index maps document paths to parsed documents and their anchor sets.
type Index struct {
	docs    map[string]*model.Document
	anchors map[string]map[string]struct{}
}

// NewIndex builds an index. Paths are cleaned; later duplicates win.
func NewIndex(docs []*model.Document) *Index {
	idx := &Index{
		docs:    make(map[string]*model.Document, len(docs)),
		anchors: make(map[string]map[string]struct{}, len(docs)),
	}
	for _, d := range docs {
		if d == nil {
			continue
		}
		p := path.Clean(d.Path)
		idx.docs[p] = d
		idx.anchors[p] = d.SlugSet()
	}
	return idx
}

// Anchors returns the slug set of the document at p.
func (i *Index) Anchors(p string) (map[string]struct{}, bool) {
	a, ok := i.anchors[path.Clean(p)]
	return a, ok
}

// Len returns the number of indexed documents.
func (i *Index) Len() int {
	return len(i.docs)
}
