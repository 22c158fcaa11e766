package utils

import "github.com/cenkalti/backoff"

// LimitRetries bounds b to retries extra attempts. Zero or fewer retries means
// a single attempt; backoff.WithMaxRetries treats zero as unlimited.
func LimitRetries(b backoff.BackOff, retries int) backoff.BackOff {
	if retries <= 0 {
		return &backoff.StopBackOff{}
	}
	return backoff.WithMaxRetries(b, uint64(retries))
}
