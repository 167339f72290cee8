package dealer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

// SaveInput は販売店の作成・更新リクエスト。IDが0の場合は新規作成として扱う。
type SaveInput struct {
	ID            int64  `json:"id" validate:"gte=0"`
	CompanyName   string `json:"companyName" validate:"required,max=255"`
	ContactPerson string `json:"contactPerson" validate:"max=255"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,max=32"`
	GSTINNumber   string `json:"gstinNumber" validate:"max=32"`
	Address       string `json:"address" validate:"max=2000"`
}

// normalized は文字列項目をcleanで整形し、前後の空白を除去した入力を返す。
func (in SaveInput) normalized(clean func(string) string) SaveInput {
	f := func(s string) string { return strings.TrimSpace(clean(s)) }
	in.CompanyName = f(in.CompanyName)
	in.ContactPerson = f(in.ContactPerson)
	in.PhoneNumber = f(in.PhoneNumber)
	in.GSTINNumber = f(in.GSTINNumber)
	in.Address = f(in.Address)
	return in
}

func (in SaveInput) attributes() model.DealerAttributes {
	return model.DealerAttributes{
		CompanyName:   in.CompanyName,
		ContactPerson: in.ContactPerson,
		PhoneNumber:   in.PhoneNumber,
		GSTINNumber:   in.GSTINNumber,
		Address:       in.Address,
	}
}

// newValidator はjsonタグ名でフィールドを報告するバリデータを生成する。
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput は入力を検証し、違反があればValidationErrorを返す。
// 必須項目の欠落は他の違反より優先して定型メッセージで報告する。
func validateInput(v *validator.Validate, in SaveInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("failed to validate dealer input: %w", err)
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return model.NewValidationError(nil)
		}
		msgs = append(msgs, fieldError(fe))
	}
	return model.NewValidationError(msgs)
}

// fieldError は単一の検証エラーを人が読めるメッセージに変換する。
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
