// Package services contains the core business logic, implementing the
// driving port interfaces. Services depend only on driven port interfaces,
// never on concrete adapters.
//
// The canonical catalog lives here as an immutable snapshot owned by
// CatalogService; mutations rebuild it wholesale and swap the reference, so
// concurrent readers never observe a half-built catalog.
package services
