package service

import "github.com/Freeeeeet/scheduler_grading/internal/model"

// Permissions проверки прав, от которых зависит обзор оценок
type Permissions interface {
	// CanSeeOverviewOutsideActivity может ли пользователь смотреть обзор курса или сайта
	CanSeeOverviewOutsideActivity(user *model.User) bool
	// CanSeeOtherTeachers может ли пользователь смотреть и менять записи других учителей в данном scope
	CanSeeOtherTeachers(user *model.User, scope model.Scope) bool
}

// RolePermissions права по роли пользователя
type RolePermissions struct{}

func (RolePermissions) CanSeeOverviewOutsideActivity(user *model.User) bool {
	return user != nil && (user.Role == model.RoleManager || user.Role == model.RoleAdmin)
}

func (RolePermissions) CanSeeOtherTeachers(user *model.User, scope model.Scope) bool {
	if user == nil {
		return false
	}
	if scope == model.ScopeSite {
		return user.Role == model.RoleAdmin
	}
	return user.Role == model.RoleManager || user.Role == model.RoleAdmin
}
