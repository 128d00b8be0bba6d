package graph

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanScript(t *testing.T) {
	s, _ := counterScript(t)
	assert.NoError(t, Validate(s))
}

func TestValidateCollectsProblems(t *testing.T) {
	s := NewScript()
	pr := addBox(t, s, KindPrint)
	pr.nodes[0].link = &PortRef{Box: 77, Port: 0}
	named(t, s, KindSubroutine, "Dup")
	named(t, s, KindSubroutine, "Dup")
	named(t, s, KindInvoke, "Missing")

	err := Validate(s)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)

	problems := Problems(err)
	require.Len(t, problems, 4)
	assert.Equal(t, SeverityError, problems[0].Severity)
	assert.Equal(t, pr.ID(), problems[0].Box)
	assert.Contains(t, problems[1].Message, `duplicate Subroutine name "Dup"`)
	assert.Contains(t, problems[2].Message, `no Subroutine named "Missing"`)
	assert.Contains(t, problems[3].Message, "no Start box")
	assert.True(t, HasErrors(err))
}

func TestValidateWarningsOnly(t *testing.T) {
	s := NewScript()
	literal(t, s, KindInteger, "1")

	err := Validate(s)
	require.Error(t, err)
	assert.False(t, HasErrors(err))
	assert.Len(t, Problems(err), 1)
}

func TestProblemsOfNil(t *testing.T) {
	assert.Empty(t, Problems(nil))
	assert.False(t, HasErrors(nil))
}
