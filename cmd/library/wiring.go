package main

import (
	"errors"

	"github.com/AntonStoeckl/library-circulation/circulation/auth"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addcopies"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/borrowcopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/closestaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/openstaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/retirecopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/returncopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/updatestaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/analytics"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/auditlog"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/categories"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/checkstatus"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/searchcatalog"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/staffcredentials"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/stafflist"
	"github.com/AntonStoeckl/library-circulation/circulation/httpapi"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
	"github.com/AntonStoeckl/library-circulation/circulation/shell/observable"
)

// handlerSet collects wrapper construction errors so the handler tables below stay flat.
type handlerSet struct {
	rt   *runtime
	errs []error
}

func observeCommand[C shell.Command, R shell.CommandResult](
	hs *handlerSet,
	handler shell.CoreCommandHandler[C, R],
) shell.CoreCommandHandler[C, R] {

	opts := []observable.CommandOption[C, R]{
		observable.WithCommandContextualLogging[C, R](hs.rt.contextualLogger),
	}
	if hs.rt.metrics != nil {
		opts = append(opts, observable.WithCommandMetrics[C, R](hs.rt.metrics))
	}
	if hs.rt.tracing != nil {
		opts = append(opts, observable.WithCommandTracing[C, R](hs.rt.tracing))
	}

	wrapper, err := observable.NewCommandWrapper(handler, opts...)
	if err != nil {
		hs.errs = append(hs.errs, err)
		return handler
	}

	return wrapper
}

func observeQuery[Q shell.Query, R any](
	hs *handlerSet,
	handler shell.CoreQueryHandler[Q, R],
) shell.CoreQueryHandler[Q, R] {

	opts := []observable.QueryOption[Q, R]{
		observable.WithQueryContextualLogging[Q, R](hs.rt.contextualLogger),
	}
	if hs.rt.metrics != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](hs.rt.metrics))
	}
	if hs.rt.tracing != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](hs.rt.tracing))
	}

	wrapper, err := observable.NewQueryWrapper(handler, opts...)
	if err != nil {
		hs.errs = append(hs.errs, err)
		return handler
	}

	return wrapper
}

func (rt *runtime) commandHandlers() (httpapi.CommandHandlers, error) {
	hs := &handlerSet{rt: rt}
	store := rt.store

	handlers := httpapi.CommandHandlers{
		BorrowCopy: observeCommand[borrowcopy.Command, borrowcopy.Result](
			hs, borrowcopy.NewCommandHandler(store)),
		ReturnCopy: observeCommand[returncopy.Command, returncopy.Result](
			hs, returncopy.NewCommandHandler(store, rt.finePolicy)),
		AddBook: observeCommand[addbook.Command, addbook.Result](
			hs, addbook.NewCommandHandler(store)),
		AddCopies: observeCommand[addcopies.Command, addcopies.Result](
			hs, addcopies.NewCommandHandler(store)),
		RetireCopy: observeCommand[retirecopy.Command, retirecopy.Result](
			hs, retirecopy.NewCommandHandler(store)),
		RegisterMember: observeCommand[registermember.Command, shell.HandlerResult](
			hs, registermember.NewCommandHandler(store)),
		OpenStaffAccount: observeCommand[openstaffaccount.Command, shell.HandlerResult](
			hs, openstaffaccount.NewCommandHandler(store)),
		UpdateStaffAccount: observeCommand[updatestaffaccount.Command, shell.HandlerResult](
			hs, updatestaffaccount.NewCommandHandler(store)),
		CloseStaffAccount: observeCommand[closestaffaccount.Command, shell.HandlerResult](
			hs, closestaffaccount.NewCommandHandler(store)),
	}

	return handlers, errors.Join(hs.errs...)
}

func (rt *runtime) queryHandlers() (httpapi.QueryHandlers, error) {
	hs := &handlerSet{rt: rt}
	store := rt.store

	handlers := httpapi.QueryHandlers{
		CheckStatus: observeQuery[checkstatus.Query, checkstatus.CopyStatus](
			hs, checkstatus.NewQueryHandler(store)),
		SearchCatalog: observeQuery[searchcatalog.Query, searchcatalog.SearchResults](
			hs, searchcatalog.NewQueryHandler(store)),
		Categories: observeQuery[categories.Query, categories.Categories](
			hs, categories.NewQueryHandler(store)),
		StaffList: observeQuery[stafflist.Query, stafflist.StaffMembers](
			hs, stafflist.NewQueryHandler(store)),
		AuditLog: observeQuery[auditlog.Query, auditlog.Entries](
			hs, auditlog.NewQueryHandler(store)),
		Analytics: observeQuery[analytics.Query, analytics.Report](
			hs, analytics.NewQueryHandler(store, rt.finePolicy)),
	}

	return handlers, errors.Join(hs.errs...)
}

func (rt *runtime) credentialsReader() (auth.CredentialsReader, error) {
	hs := &handlerSet{rt: rt}
	reader := observeQuery[staffcredentials.Query, staffcredentials.Credentials](
		hs, staffcredentials.NewQueryHandler(rt.store))

	return reader, errors.Join(hs.errs...)
}
