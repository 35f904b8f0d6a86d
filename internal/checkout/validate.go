// Package checkout реализует клиентскую часть оформления заказа:
// полевые валидаторы, машину состояний формы и отправку заказа на сервер.
// Клиентская валидация — удобство для покупателя; сервер валидирует
// payload независимо.
package checkout

import (
	"regexp"
	"strings"
)

// Field перечисляет поля формы заказа. Закрытый набор: опечатка в имени
// поля — ошибка компиляции, а не молчаливый no-op.
type Field string

const (
	FieldColor        Field = "color"
	FieldPower        Field = "power"
	FieldCustomerName Field = "customerName"
	FieldPhoneNumber  Field = "phoneNumber"
	FieldAddress      Field = "address"
)

// Локальный формат номера: необязательный префикс страны, затем 01,
// третья цифра 3–9 и ещё восемь цифр. Это закрытый региональный формат,
// а не общая проверка телефона.
var phonePattern = regexp.MustCompile(`^(?:\+?88)?01[3-9]\d{8}$`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ValidPhone проверяет номер после удаления пробельных символов.
func ValidPhone(raw string) bool {
	return phonePattern.MatchString(whitespacePattern.ReplaceAllString(raw, ""))
}

// ValidateField валидирует одно поле и возвращает текст ошибки
// (пустая строка — поле корректно). Функция чистая и не паникует.
func ValidateField(field Field, value string) string {
	switch field {
	case FieldColor:
		if value == "" {
			return "Display color is required"
		}
	case FieldPower:
		if value == "" {
			return "Lens power is required"
		}
	case FieldCustomerName:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return "Name is required"
		}
		if len([]rune(trimmed)) < 2 {
			return "Name must be at least 2 characters"
		}
	case FieldPhoneNumber:
		if strings.TrimSpace(value) == "" {
			return "Phone number is required"
		}
		if !ValidPhone(value) {
			return "Enter a valid Bangladesh phone number (e.g., 01712345678)"
		}
	case FieldAddress:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return "Address is required"
		}
		if len([]rune(trimmed)) < 10 {
			return "Please enter a complete address"
		}
	}
	return ""
}

// FieldErrors — сообщения об ошибках по полям формы.
type FieldErrors struct {
	Color        string
	Power        string
	CustomerName string
	PhoneNumber  string
	Address      string
}

// Get возвращает ошибку поля.
func (e *FieldErrors) Get(field Field) string {
	switch field {
	case FieldColor:
		return e.Color
	case FieldPower:
		return e.Power
	case FieldCustomerName:
		return e.CustomerName
	case FieldPhoneNumber:
		return e.PhoneNumber
	case FieldAddress:
		return e.Address
	}
	return ""
}

func (e *FieldErrors) set(field Field, msg string) {
	switch field {
	case FieldColor:
		e.Color = msg
	case FieldPower:
		e.Power = msg
	case FieldCustomerName:
		e.CustomerName = msg
	case FieldPhoneNumber:
		e.PhoneNumber = msg
	case FieldAddress:
		e.Address = msg
	}
}

// FieldTouched отмечает поля, с которыми покупатель уже взаимодействовал.
// Ошибка показывается только для touched-поля.
type FieldTouched struct {
	Color        bool
	Power        bool
	CustomerName bool
	PhoneNumber  bool
	Address      bool
}

// Get возвращает флаг поля.
func (t *FieldTouched) Get(field Field) bool {
	switch field {
	case FieldColor:
		return t.Color
	case FieldPower:
		return t.Power
	case FieldCustomerName:
		return t.CustomerName
	case FieldPhoneNumber:
		return t.PhoneNumber
	case FieldAddress:
		return t.Address
	}
	return false
}

func (t *FieldTouched) set(field Field) {
	switch field {
	case FieldColor:
		t.Color = true
	case FieldPower:
		t.Power = true
	case FieldCustomerName:
		t.CustomerName = true
	case FieldPhoneNumber:
		t.PhoneNumber = true
	case FieldAddress:
		t.Address = true
	}
}
