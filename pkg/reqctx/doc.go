// Package reqctx carries request-scoped data through context.Context.
//
// HTTP middleware sets RequestMeta on every request and a Principal on
// authenticated ones. Services receive the caller's authorize.Access as an
// explicit argument; the Principal here exists so handlers and the logger can
// reach it without ambient globals.
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: id})
//	ctx = reqctx.WithPrincipal(ctx, &reqctx.Principal{StaffID: sid, Access: access})
//
//	if p, ok := reqctx.PrincipalFromContext(ctx); ok {
//	    svc.SetExaminationStatus(ctx, p.Access, bookingID, status)
//	}
package reqctx
