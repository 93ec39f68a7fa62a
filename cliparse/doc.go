// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment.

Precedence: CLI flag, then environment variable (a .env file is loaded via
godotenv when present), then default.

	-p / PORT               server port (default 8080)
	-d / DATABASE_URL       database connection string (required)
	-t / DATABASE_TYPE      sqlite or postgres (default sqlite)
	-jwt-secret / JWT_SECRET  token signing secret (required)
	-token-ttl / TOKEN_TTL    access token lifetime (default 24h)
*/
package cliparse
