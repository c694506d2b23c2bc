// Package ui declares the presentation capabilities the client state
// machines call into: user-facing notifications and screen navigation.
package ui

import "context"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a short message shown to the user, such as a toast.
type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Route names a screen of the application.
type Route string

const (
	RouteSignIn    Route = "/login"
	RouteDashboard Route = "/dashboard"
)

type Navigator interface {
	Navigate(ctx context.Context, to Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, to Route)

func (f NavigatorFunc) Navigate(ctx context.Context, to Route) { f(ctx, to) }

// Discard ignores notifications and navigation requests.
type Discard struct{}

func (Discard) Notify(context.Context, Notification) {}
func (Discard) Navigate(context.Context, Route)      {}
