package service

import (
	"testing"

	"dream-insight-be/pkg/knowledge/classifier"
	"dream-insight-be/pkg/knowledge/themes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifyOnlyService() IKnowledgeService {
	return NewKnowledgeService(classifier.New(nil), themes.NewMapper(), nil, nil, "embed_fragment", nil)
}

func TestClassifyMapsThemeConcepts(t *testing.T) {
	svc := newClassifyOnlyService()

	c := svc.Classify("An owl watched me from deep inside the forest.")

	assert.Equal(t, []string{"forest", "owl"}, c.ThemeCodes)
	// forest carries three concepts, owl two
	require.Len(t, c.Concepts, 5)
	assert.Contains(t, c.Concepts, "the unknown")
	assert.Contains(t, c.Concepts, "hidden wisdom")
}

func TestClassifyWithoutThemeSignal(t *testing.T) {
	svc := newClassifyOnlyService()

	c := svc.Classify("A completely uneventful afternoon.")

	assert.Empty(t, c.ThemeCodes)
	assert.Empty(t, c.Concepts)
}
