// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer carries no ORM
// tags. Each model converts to and from its entity with ToDomain / FromDomain.
//
// Files:
// - base.go: shared id, timestamp, version and tenant columns
// - finance.go: payables, payments, bank accounts, categories
// - partner.go: parties and their attachments
// - integration.go: integrations and integration logs
package models
