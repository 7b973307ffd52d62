// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package errutil_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // gomega convention
	"github.com/samber/oops"

	"github.com/hearthsim/hearth/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("LOCATION_NOT_FOUND").Errorf("test error")
	errutil.AssertErrorCode(t, err, "LOCATION_NOT_FOUND")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("actor_id", "npc_a").Errorf("test error")
	errutil.AssertErrorContext(t, err, "actor_id", "npc_a")
}

func TestHaveErrorCode(t *testing.T) {
	g := NewWithT(t)

	coded := oops.Code("ACTOR_GONE").Errorf("npc_a stopped")
	g.Expect(coded).To(errutil.HaveErrorCode("ACTOR_GONE"))
	g.Expect(coded).NotTo(errutil.HaveErrorCode("DECISION_IN_FLIGHT"))
	g.Expect(errors.New("plain")).NotTo(errutil.HaveErrorCode("ACTOR_GONE"))
}
