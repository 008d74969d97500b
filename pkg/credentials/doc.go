// Package credentials holds the provider API keys the proxy is allowed to
// use. A Set is assembled once at startup from ordered sources (process
// environment, config file values, AWS SSM Parameter Store) and is read-only
// afterwards, so it is safe to share across request goroutines.
package credentials
