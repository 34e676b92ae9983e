package services

import (
	"strings"
	"testing"

	"vkinder-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNames(t *testing.T) {
	input := `Марина-1
анатолий-2

# comment
Алёна-1
Анна-Мария-1
`
	names, err := ParseNames(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []models.GenderName{
		{Name: "Марина", Sex: models.SexFemale},
		{Name: "Анатолий", Sex: models.SexMale},
		{Name: "Алена", Sex: models.SexFemale},
		{Name: "Анна-мария", Sex: models.SexFemale},
	}, names)
}

func TestParseNamesRejectsBadLines(t *testing.T) {
	for _, input := range []string{"Марина", "Марина-x", "Марина-3", "-1"} {
		_, err := ParseNames(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}
