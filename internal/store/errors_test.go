package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil stays nil", nil, KindUnknown},
		{"deadline is timeout", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline is timeout", fmt.Errorf("fetch users: %w", context.DeadlineExceeded), KindTimeout},
		{"gorm not found", gorm.ErrRecordNotFound, KindNotFound},
		{"mysql bad credentials", &mysql.MySQLError{Number: 1045}, KindPermission},
		{"mysql table denied", &mysql.MySQLError{Number: 1142}, KindPermission},
		{"mysql missing table", &mysql.MySQLError{Number: 1146}, KindNotFound},
		{"mysql other", &mysql.MySQLError{Number: 1064}, KindUnknown},
		{"bad conn is network", driver.ErrBadConn, KindNetwork},
		{"refused is network", errors.New("dial tcp 10.0.0.1:3306: connect: connection refused"), KindNetwork},
		{"dns is network", errors.New("dial tcp: lookup db.example: no such host"), KindNetwork},
		{"anything else", errors.New("boom"), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			if tc.err == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tc.want, got.Kind)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestClassifyPassesThroughStoreErrors(t *testing.T) {
	orig := NewError(KindNotFound, "Log not found")
	assert.Same(t, orig, Classify(orig))
	assert.Same(t, orig, Classify(fmt.Errorf("stop: %w", orig)))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindPermission, KindOf(NewError(KindPermission, "nope")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("raw")))
}
