// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/models"
)

// CanCreate: only authenticated users create polls.
func CanCreate(actor identity.Identity) bool {
	return actor.Authenticated()
}

// CanMutate: only the authenticated owner edits, closes, or reopens a poll.
// Reads are unconditionally allowed and never consult this.
func CanMutate(poll models.Poll, actor identity.Identity) bool {
	return actor.Authenticated() && actor.UserID == poll.CreatedBy
}
