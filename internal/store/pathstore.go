package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/pathstore"
)

const (
	docPrefix     = "docintel/documents"
	hashPrefix    = "docintel/hashes"
	segmentPrefix = "docintel/segments"
)

// PathStore keeps documents in a remote pathstore. Each document is one node;
// segments get lightweight anchor nodes so related-segment edges can be
// stored as links.
type PathStore struct {
	client *pathstore.Client
}

// NewPathStore creates a store backed by the pathstore at baseURL.
func NewPathStore(baseURL, apiKey string) *PathStore {
	return &PathStore{client: pathstore.NewClient(baseURL, apiKey)}
}

type hashEntry struct {
	DocID string `json:"doc_id"`
}

type segmentAnchor struct {
	DocID     string `json:"doc_id"`
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	Page      int    `json:"page"`
}

func docKey(id string) string { return docPrefix + "/" + id }
func hashKey(h string) string { return hashPrefix + "/" + h }
func segmentKey(docID, segID string) string { return segmentPrefix + "/" + docID + "/" + segID }

func (s *PathStore) Save(ctx context.Context, doc *doctree.Document) error {
	// Drop anchors and links of a previous version.
	if err := s.client.DeleteNode(ctx, segmentPrefix+"/"+doc.ID, true); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}
	if err := s.client.PutNode(ctx, docKey(doc.ID), pathstore.NodeRequest{Value: doc, Source: "docintel"}); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if doc.ContentHash != "" {
		if err := s.client.PutNode(ctx, hashKey(doc.ContentHash), pathstore.NodeRequest{Value: hashEntry{DocID: doc.ID}}); err != nil {
			return fmt.Errorf("save hash index: %w", err)
		}
	}

	for _, seg := range doc.Segments {
		anchor := segmentAnchor{DocID: doc.ID, SectionID: seg.SectionID, Title: seg.Title, Page: seg.Page}
		if err := s.client.PutNode(ctx, segmentKey(doc.ID, seg.ID), pathstore.NodeRequest{Value: anchor}); err != nil {
			return fmt.Errorf("save segment %s: %w", seg.ID, err)
		}
	}
	for _, seg := range doc.Segments {
		for rank, rel := range seg.Related {
			err := s.client.PutLink(ctx, pathstore.LinkRequest{
				From:    segmentKey(doc.ID, seg.ID),
				To:      segmentKey(doc.ID, rel),
				Weight:  1 / float64(rank+1),
				Summary: "related",
			})
			if err != nil {
				return fmt.Errorf("link segment %s: %w", seg.ID, err)
			}
		}
	}
	return nil
}

func (s *PathStore) Get(ctx context.Context, id string) (*doctree.Document, error) {
	node, err := s.client.GetNode(ctx, docKey(id))
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	if node == nil {
		return nil, ErrNotFound
	}
	var doc doctree.Document
	if err := json.Unmarshal(node.Value, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &doc, nil
}

func (s *PathStore) List(ctx context.Context, limit int) ([]doctree.Summary, error) {
	nodes, err := s.client.ListChildren(ctx, docPrefix, 0)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]doctree.Summary, 0, len(nodes))
	for _, n := range nodes {
		var doc doctree.Document
		if err := json.Unmarshal(n.Value, &doc); err != nil || doc.ID == "" {
			continue
		}
		out = append(out, doc.Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *PathStore) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.DeleteNode(ctx, segmentPrefix+"/"+id, true); err != nil {
		return fmt.Errorf("delete segments: %w", err)
	}
	if doc.ContentHash != "" {
		if err := s.client.DeleteNode(ctx, hashKey(doc.ContentHash), false); err != nil {
			return fmt.Errorf("delete hash index: %w", err)
		}
	}
	if err := s.client.DeleteNode(ctx, docKey(id), false); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

func (s *PathStore) FindByHash(ctx context.Context, hash string) (string, error) {
	node, err := s.client.GetNode(ctx, hashKey(hash))
	if err != nil {
		return "", fmt.Errorf("find by hash: %w", err)
	}
	if node == nil {
		return "", ErrNotFound
	}
	var entry hashEntry
	if err := json.Unmarshal(node.Value, &entry); err != nil || entry.DocID == "" {
		return "", ErrNotFound
	}
	return entry.DocID, nil
}

func (s *PathStore) Close() error {
	s.client.Close()
	return nil
}
