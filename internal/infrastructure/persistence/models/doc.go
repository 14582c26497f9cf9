// Package models holds the GORM row types behind the repositories. Domain
// types stay free of tags; each model converts with ToDomain and FromDomain.
//
// Pending sales keep their version column so decisions can be applied with a
// conditional update. Financial movements are insert-only.
package models
