// Package mocks holds test doubles for the domain repositories and
// providers shared by service, adapter and bot tests.
package mocks
