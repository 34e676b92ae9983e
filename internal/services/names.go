package services

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vkinder-bot/internal/models"
)

// ParseNames reads the names reference file, one "name-sex" pair per line
func ParseNames(r io.Reader) ([]models.GenderName, error) {
	var names []models.GenderName

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		idx := strings.LastIndex(text, "-")
		if idx <= 0 {
			return nil, fmt.Errorf("line %d: expected name-sex, got %q", line, text)
		}

		value, err := strconv.Atoi(strings.TrimSpace(text[idx+1:]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid sex %q", line, text[idx+1:])
		}
		sex := models.Sex(value)
		if !sex.Valid() {
			return nil, fmt.Errorf("line %d: sex must be 1 or 2, got %d", line, value)
		}

		names = append(names, models.GenderName{
			Name: NormalizeName(text[:idx]),
			Sex:  sex,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names: %w", err)
	}
	return names, nil
}
