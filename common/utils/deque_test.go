package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DequeTestSuite struct {
	suite.Suite
}

func (s *DequeTestSuite) TestPushPopOrder() {
	d := NewDeque()
	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}
	s.Require().Equal(uint64(10), d.Len())

	head, ok := d.Head()
	s.Require().True(ok)
	s.Require().Equal(0, head)
	back, ok := d.Back()
	s.Require().True(ok)
	s.Require().Equal(9, back)

	for i := 0; i < 10; i++ {
		v, ok := d.PopFront()
		s.Require().True(ok)
		s.Require().Equal(i, v)
	}
	_, ok = d.PopFront()
	s.Require().False(ok)
}

func (s *DequeTestSuite) TestPushFrontPopBack() {
	d := NewDeque()
	for i := 0; i < 5; i++ {
		d.PushFront(i)
	}
	for i := 0; i < 5; i++ {
		v, ok := d.PopBack()
		s.Require().True(ok)
		s.Require().Equal(i, v)
	}
	_, ok := d.PopBack()
	s.Require().False(ok)
}

func (s *DequeTestSuite) TestSlice() {
	d := NewDeque()
	// force wrap-around of the ring buffer
	for i := 0; i < 4; i++ {
		d.PushBack(i)
	}
	d.PopFront()
	d.PopFront()
	d.PushBack(4)
	d.PushBack(5)

	s.Require().Equal([]interface{}{2, 3, 4, 5}, d.Slice())
}

func TestDeque(t *testing.T) {
	suite.Run(t, new(DequeTestSuite))
}
