package grid

import "fmt"

// ConfigurationError ошибка описания таблицы. Возникает только в New и не восстанавливается
type ConfigurationError struct {
	Table  string
	Column string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("grid %q: column %q: %s", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("grid %q: %s", e.Table, e.Reason)
}
