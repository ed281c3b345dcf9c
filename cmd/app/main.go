// Package main is the link-sentry CLI.
//
// link-sentry loads a page in a headless browser, checks every link in its
// body content and saves an annotated screenshot for each link that fails.
//
// Usage:
//
//	link-sentry [url]
//	link-sentry links [url]
//	link-sentry history [url]
package main

func main() {
	Execute()
}
