// Package utils provides common helpers for the registry-sync application.
// It includes text cleanup for scraped markup and lenient conversions used when
// turning registry strings into typed values.
package utils
