package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在或已删除
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate 在库图书中ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrBookBorrowed 图书已被借出
	ErrBookBorrowed = apperrors.New(apperrors.ErrCodeBookBorrowed, "图书已被借出")

	// ErrBookInUse 借出中的图书不能删除
	ErrBookInUse = apperrors.New(apperrors.ErrCodeBookInUse, "图书借出中,不能删除")

	ErrEmptyTitle           = apperrors.New(apperrors.ErrCodeValidation, "书名不能为空")
	ErrEmptyAuthor          = apperrors.New(apperrors.ErrCodeValidation, "作者不能为空")
	ErrInvalidISBN          = apperrors.New(apperrors.ErrCodeValidation, "ISBN必须是10位或13位数字")
	ErrInvalidPublishedDate = apperrors.New(apperrors.ErrCodeValidation, "出版日期格式应为YYYY-MM-DD")

	// ErrInvalidStatus 未知的借阅状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "状态只能是available或borrowed")
)
