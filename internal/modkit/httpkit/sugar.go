package httpkit

import "net/http"

// Get registers a no-body handler with the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, Call(h)) }

// Post registers a handler that reads the body itself
func Post(r Router, path string, h func(*http.Request) (any, error)) { r.Post(path, Call(h)) }
