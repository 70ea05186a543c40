package webhook

import "time"

const (
	defaultPath        = "/notices"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)
