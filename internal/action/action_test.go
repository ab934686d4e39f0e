// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewController_ResolvesKnownModules(t *testing.T) {
	for _, name := range []string{"", "noop", "logging"} {
		t.Run(name, func(t *testing.T) {
			c, err := NewController(name, nil)
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NoError(t, c.On(context.Background()))
			assert.NoError(t, c.Off(context.Background()))
		})
	}
}

func TestNewController_RejectsUnknownModule(t *testing.T) {
	_, err := NewController("relay", nil)
	assert.Error(t, err)
}

func TestNoopController_NeverErrors(t *testing.T) {
	c := NoopController{}
	assert.NoError(t, c.On(context.Background()))
	assert.NoError(t, c.Off(context.Background()))
}
