package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideRPS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		player RPSChoice
		bot    RPSChoice
		want   RPSResult
	}{
		{RPSRock, RPSScissors, RPSWin},
		{RPSPaper, RPSRock, RPSWin},
		{RPSScissors, RPSPaper, RPSWin},
		{RPSRock, RPSPaper, RPSLose},
		{RPSPaper, RPSScissors, RPSLose},
		{RPSScissors, RPSRock, RPSLose},
		{RPSRock, RPSRock, RPSTie},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DecideRPS(tt.player, tt.bot), "%s vs %s", tt.player, tt.bot)
	}
}

func TestParseRPSChoice(t *testing.T) {
	t.Parallel()

	c, err := ParseRPSChoice(" Paper ")
	require.NoError(t, err)
	assert.Equal(t, RPSPaper, c)

	_, err = ParseRPSChoice("lizard")
	assert.Error(t, err)
}
