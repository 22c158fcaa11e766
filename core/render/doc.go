// Package render provides the DOM providers that turn a registry URL into
// fully expanded markup.
//
// Chrome drives a headless browser through chromedp: it navigates, waits for
// the page to settle, dismisses the cookie banner, opens every collapsed card
// and nested ant-design section, and returns the resulting document. Each
// attempt runs in a fresh browser and failed attempts are retried with
// exponential backoff.
//
// File serves a saved page, which is how offline runs and tests feed the
// pipeline.
//
// Archive decorates any provider and stores every rendered page in object
// storage under <prefix>/<name>/<timestamp>.html. Archiving is best effort:
// a failed upload is logged and the markup is still returned.
package render
