package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicatedErr(t *testing.T) {
	assert.False(t, IsDuplicatedErr(nil))
	assert.False(t, IsDuplicatedErr(errors.New("boom")))
	assert.True(t, IsDuplicatedErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicatedErr(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, IsDuplicatedErr(&mysql.MySQLError{Number: 1045}))
}
