package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在或已删除
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrEmailDuplicate 在册用户中邮箱已存在
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")

	// ErrUserHasOpenBorrow 用户还有未归还的图书
	ErrUserHasOpenBorrow = apperrors.New(apperrors.ErrCodeUserHasOpenBorrow, "用户还有未归还的图书,不能删除")

	ErrEmptyName    = apperrors.New(apperrors.ErrCodeValidation, "姓名不能为空")
	ErrNameTooLong  = apperrors.New(apperrors.ErrCodeValidation, "姓名不能超过50个字符")
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeValidation, "邮箱格式不正确")
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeWeakPassword, "密码应为8-64位,且同时包含字母和数字")
	ErrInvalidRole  = apperrors.New(apperrors.ErrCodeInvalidParams, "角色只能是member或admin")
)
