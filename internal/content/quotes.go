// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/model"
)

// QuoteService serves the multi-document quotes collection.
type QuoteService struct {
	store      docstore.Store
	collection string
	logger     *slog.Logger
	intN       func(n int) int
}

func newQuoteService(store docstore.Store, collection string, logger *slog.Logger) *QuoteService {
	return &QuoteService{store: store, collection: collection, logger: logger, intN: rand.IntN}
}

// FetchAll returns every quote ordered by order.
func (s *QuoteService) FetchAll(ctx context.Context) (*model.QuotesData, error) {
	docs, err := s.store.List(ctx, s.collection, docstore.Query{OrderBy: "order"})
	if err != nil {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}
	quotes := make([]model.Quote, 0, len(docs))
	for i := range docs {
		var q model.Quote
		if err := docstore.Decode(&docs[i], &q); err != nil {
			return nil, fmt.Errorf("fetching quotes: %w", err)
		}
		quotes = append(quotes, q)
	}
	return &model.QuotesData{Quotes: quotes}, nil
}

// GetAll is FetchAll with failures logged and reported as an empty list.
func (s *QuoteService) GetAll(ctx context.Context) model.QuotesData {
	data, err := s.FetchAll(ctx)
	if err != nil {
		s.logger.Error("error fetching quotes", "error", err)
		return model.QuotesData{Quotes: []model.Quote{}}
	}
	return *data
}

// GetRandom picks one quote uniformly from the full list. It returns nil
// when there are none or the read fails.
func (s *QuoteService) GetRandom(ctx context.Context) *model.Quote {
	data, err := s.FetchAll(ctx)
	if err != nil {
		s.logger.Error("error fetching random quote", "error", err)
		return nil
	}
	if len(data.Quotes) == 0 {
		return nil
	}
	q := data.Quotes[s.intN(len(data.Quotes))]
	return &q
}

// Create stores q under a store-generated id.
func (s *QuoteService) Create(ctx context.Context, q model.Quote) (*model.Quote, error) {
	fields, err := docstore.Encode(q)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.Create(ctx, s.collection, "", fields)
	if err != nil {
		return nil, fmt.Errorf("creating quote: %w", err)
	}
	var out model.Quote
	if err := docstore.Decode(doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
