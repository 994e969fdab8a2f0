package web

import (
	"context"

	"dojo/internal/adapters/storage"
	"dojo/internal/application/orchestrators"
)

// inTx runs fn with stores bound to a single transaction.
func (s *Server) inTx(ctx context.Context, fn func(Stores) error) error {
	return storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		return fn(NewStores(q))
	})
}

func (s *Server) registerTx(ctx context.Context, fn func(orchestrators.RegisterStores) error) error {
	return s.inTx(ctx, func(st Stores) error {
		return fn(orchestrators.RegisterStores{Users: st.Users, Children: st.Children})
	})
}

func (s *Server) submitTx(ctx context.Context, fn func(orchestrators.SubmitStores) error) error {
	return s.inTx(ctx, func(st Stores) error {
		return fn(orchestrators.SubmitStores{Shifts: st.Shifts, Users: st.Users, Requests: st.Requests})
	})
}

func (s *Server) resolveTx(ctx context.Context, fn func(orchestrators.ResolveStores) error) error {
	return s.inTx(ctx, func(st Stores) error {
		return fn(orchestrators.ResolveStores{Requests: st.Requests, Shifts: st.Shifts})
	})
}

func (s *Server) toggleTx(ctx context.Context, fn func(orchestrators.ProgressStoreForToggle) error) error {
	return s.inTx(ctx, func(st Stores) error { return fn(st.Progress) })
}

func (s *Server) deleteTechniqueTx(ctx context.Context, fn func(orchestrators.TechniqueStoreForDelete) error) error {
	return s.inTx(ctx, func(st Stores) error { return fn(st.Techniques) })
}
