// Package constants holds identifiers shared between configuration and infrastructure.
package constants

// Pub/Sub providers.
const (
	PubSubProviderGoogle = "google"
	PubSubProviderLocal  = "local"
	PubSubProviderNone   = "none"
)

// Password hasher algorithms.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// ServiceName is used when the configuration does not name the service.
const ServiceName = "blog"

// Environments.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)
