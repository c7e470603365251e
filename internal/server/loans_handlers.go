// file: internal/server/loans_handlers.go
// version: 1.0.0
// guid: e560b01a-2a31-430b-98d2-9dbfb887d8ef

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/library-catalog/internal/i18n"
	"github.com/jdfalk/library-catalog/internal/metrics"
)

// createLoan lends the book registered under the requested ISBN and responds
// with the new loan identifier as a JSON string.
func (s *Server) createLoan(c *gin.Context) {
	ol := operationLogger(c, "createLoan")

	var dto LoanDTO
	if HandleBindError(c, ol, c.ShouldBindJSON(&dto)) {
		return
	}

	id, err := s.deps.Loans.Create(c.Request.Context(), loanRequestFromDTO(dto))
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}

	metrics.IncLoansCreated()
	ol.SetResourceID(id)
	ol.LogSuccess(http.StatusCreated)
	c.JSON(http.StatusCreated, id)
}

func (s *Server) getLoan(c *gin.Context) {
	ol := operationLogger(c, "getLoan")
	id := c.Param("id")
	ol.SetResourceID(id)

	loan, err := s.deps.Loans.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}
	if loan == nil {
		RespondWithError(c, ol, notFound(i18n.MsgLoanNotFound))
		return
	}

	c.JSON(http.StatusOK, loanToDTO(*loan))
}
