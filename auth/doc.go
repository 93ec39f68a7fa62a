// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation, password hashing, and id creation.

Access tokens are HS256 JWTs carrying the user id:

	token, exp, err := auth.GenerateToken(userID, cfg.JWTSecret, cfg.TokenTTL)
	claims, err := auth.ParseToken(token, cfg.JWTSecret)

Passwords are stored as bcrypt hashes (HashPassword / CheckPassword).
Entity ids are UUIDv4 strings from NewID.
*/
package auth
