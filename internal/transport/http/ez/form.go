package ez

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"go-gin-shop/internal/domain"
)

// NumberText binds from a JSON number, a JSON string or a form value,
// so one input struct serves both JSON and multipart requests.
type NumberText string

func (n *NumberText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberText(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = NumberText(num.String())
	return nil
}

func (n NumberText) IsZero() bool { return strings.TrimSpace(string(n)) == "" }

// Int parses n; an empty value yields nil.
func (n NumberText) Int(field string) (*int, error) {
	if n.IsZero() {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(n)))
	if err != nil {
		return nil, domain.InvalidArgument(field + " must be a whole number")
	}
	return &v, nil
}

// Decimal parses n; an empty value yields nil.
func (n NumberText) Decimal(field string) (*decimal.Decimal, error) {
	if n.IsZero() {
		return nil, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(string(n)))
	if err != nil {
		return nil, domain.InvalidArgument(field + " must be a number")
	}
	return &v, nil
}

// FormFiles returns the files under field for multipart requests and
// nil for anything else. More than max files is rejected.
func FormFiles(c *gin.Context, field string, max int) ([]*multipart.FileHeader, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domain.InvalidArgument("invalid multipart form: " + err.Error())
	}
	files := form.File[field]
	if max > 0 && len(files) > max {
		return nil, domain.InvalidArgument("too many files, at most " + strconv.Itoa(max))
	}
	return files, nil
}
