package handler

import (
	"github.com/gin-gonic/gin"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// BorrowHandler 借还书HTTP处理器
type BorrowHandler struct {
	borrowBookUseCase *appborrow.BorrowBookUseCase
	returnBookUseCase *appborrow.ReturnBookUseCase
	historyUseCase    *appborrow.HistoryUseCase
}

// NewBorrowHandler 创建借还书处理器
func NewBorrowHandler(
	borrowBookUseCase *appborrow.BorrowBookUseCase,
	returnBookUseCase *appborrow.ReturnBookUseCase,
	historyUseCase *appborrow.HistoryUseCase,
) *BorrowHandler {
	return &BorrowHandler{
		borrowBookUseCase: borrowBookUseCase,
		returnBookUseCase: returnBookUseCase,
		historyUseCase:    historyUseCase,
	}
}

func actor(c *gin.Context) appborrow.Actor {
	return appborrow.Actor{
		UserID: middleware.MustGetUserID(c),
		Role:   middleware.GetRole(c),
	}
}

// Borrow 借书
// @Summary      借书
// @Description  member只能为自己借书，admin可以为任意用户借书
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BorrowRequest true "用户ID和图书ID"
// @Success      201 {object} response.Response{data=dto.BorrowResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "用户或图书不存在"
// @Failure      409 {object} response.Response "图书已被借出"
// @Router       /api/v1/borrow [put]
func (h *BorrowHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.borrowBookUseCase.Execute(c.Request.Context(), appborrow.BorrowBookRequest{
		Actor:  actor(c),
		UserID: req.UserID,
		BookID: req.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.BorrowResponse{
		ID:         result.ID,
		UserID:     result.UserID,
		BookID:     result.BookID,
		BorrowDate: result.BorrowDate,
	})
}

// Return 还书
// @Summary      还书
// @Description  每条借阅记录只能归还一次
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.ReturnResponse}
// @Failure      400 {object} response.Response "ID无效"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Failure      409 {object} response.Response "已归还"
// @Router       /api/v1/borrow/return/{id} [post]
func (h *BorrowHandler) Return(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.returnBookUseCase.Execute(c.Request.Context(), appborrow.ReturnBookRequest{
		Actor:    actor(c),
		BorrowID: id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := &dto.ReturnResponse{ID: result.ID}
	if result.ReturnDate != nil {
		resp.ReturnDate = *result.ReturnDate
	}
	response.Success(c, resp)
}

// History 借阅历史
// @Summary      借阅历史
// @Description  按借阅时间倒序，member只能查看自己的记录
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int  false "页码" default(1)
// @Param        page_size query int  false "每页数量" default(20)
// @Param        user_id   query int  false "用户ID(admin)"
// @Param        open      query bool false "只看未归还"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.HistoryItemResponse}}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/borrow/history [get]
func (h *BorrowHandler) History(c *gin.Context) {
	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.historyUseCase.Execute(c.Request.Context(), appborrow.HistoryRequest{
		Actor:    actor(c),
		UserID:   req.UserID,
		OpenOnly: req.Open,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.HistoryItemResponse, len(result.List))
	for i, it := range result.List {
		list[i] = &dto.HistoryItemResponse{
			ID:         it.ID,
			UserID:     it.UserID,
			UserName:   it.UserName,
			BookID:     it.BookID,
			BookTitle:  it.BookTitle,
			BorrowDate: it.BorrowDate,
			ReturnDate: it.ReturnDate,
		}
	}
	response.SuccessWithPage(c, list, result.Total, result.Page, result.PageSize)
}
