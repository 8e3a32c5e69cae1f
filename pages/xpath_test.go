//go:build small
// +build small

package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteral(t *testing.T) {
	assert.Equal(t, "'Help'", Literal("Help"))
	assert.Equal(t, `"Don't know"`, Literal("Don't know"))
	assert.Equal(t, `concat('Say "hi" it', "'", 's me')`, Literal(`Say "hi" it's me`))
	assert.Equal(t, `concat("'", 'a"b')`, Literal(`'a"b`))
}

func TestTextIs(t *testing.T) {
	assert.Equal(t, "//p[normalize-space()='View Profile']", TextIs("p", " View Profile ").Value)
}

func TestAnyTextIsFold(t *testing.T) {
	assert.Equal(t,
		"//*[translate(normalize-space(.), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz')=translate('FAQs', 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz')]",
		AnyTextIsFold("FAQs").Value)
}
