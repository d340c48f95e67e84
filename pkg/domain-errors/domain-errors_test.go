package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// These are the error types crossed at every trust boundary; the invariants
// "wrapped domain errors preserve the original code" and "errors.Is matches
// by code" must hold for the handler layer to map statuses correctly.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeValidation, Message: "conduct_score must be at most 10"}
		s.Equal("conduct_score must be at most 10", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeStorage}
		s.Equal("storage_unavailable", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStorage, "append evaluation")
	s.ErrorIs(err, cause)
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	err := New(CodeBadCredential, "credential has no id")
	s.ErrorIs(err, &Error{Code: CodeBadCredential})
	s.NotErrorIs(err, &Error{Code: CodeValidation})
}

func (s *DomainErrorsSuite) TestWrapPreservesExistingCode() {
	inner := New(CodeValidation, "topic must not be blank")
	outer := Wrap(fmt.Errorf("submit: %w", inner), CodeInternal, "submit failed")

	var de *Error
	s.Require().ErrorAs(outer, &de)
	s.Equal(CodeValidation, de.Code)
	s.True(HasCode(outer, CodeValidation))
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(New(CodeForbidden, ""), CodeForbidden))
	s.False(HasCode(errors.New("plain"), CodeForbidden))
	s.False(HasCode(nil, CodeForbidden))
}
