// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and token lifetime.
  - Catalog: relation expansion bounds and upload limits.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "springfield-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "springfield.api"

	// AccessTokenTTL is the lifetime of an access token.
	AccessTokenTTL = 7 * 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Relation Expansion

const (
	// CharacterEpisodePreview bounds the episodes inlined in a character.
	CharacterEpisodePreview = 5

	// EpisodeCharacterLimit bounds the main characters inlined in an episode.
	EpisodeCharacterLimit = 50

	// NewsRelationLimit bounds related episodes and characters inlined in a news item.
	NewsRelationLimit = 10

	// NewsFeaturedLimit bounds the featured strip.
	NewsFeaturedLimit = 5

	// GroupMemberPreview bounds the members listed in one family or job group.
	GroupMemberPreview = 10
)

// # Uploads

const (
	// MaxUploadBytes is the largest accepted image upload.
	MaxUploadBytes = 5 << 20

	// UploadFormField is the multipart field carrying the image.
	UploadFormField = "image"

	// UploadBatchField carries the images of a batch upload.
	UploadBatchField = "images"

	// MaxUploadFiles bounds a batch upload.
	MaxUploadFiles = 10
)

// # Log Attributes

const (
	// FieldApp tags every log line with the service name.
	FieldApp = "app"
)

// # Redis Keys

const (
	// RedisPrefixViews prefixes the hash of pending view increments per kind.
	RedisPrefixViews = "views:pending:"
)
