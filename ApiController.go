package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/LancasterAlexUofU/sheet/contracts"
	"github.com/LancasterAlexUofU/sheet/formula"
	"github.com/LancasterAlexUofU/sheet/spreadsheet"
	"github.com/gin-gonic/gin"
)

type ApiController struct {
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
}

type CellEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
	CellId  string `uri:"cell_id" binding:"required"`
}

type SheetEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
}

// SetCellRequest.Value is a pointer so that "" (empty the cell) passes binding.
type SetCellRequest struct {
	Value *string `json:"value" binding:"required"`
}

type SetCellResponse struct {
	contracts.Cell
	Recalculated []*contracts.Cell `json:"recalculated,omitempty"`
}

type SubscribeRequest struct {
	WebhookUrl string `json:"webhook_url" binding:"required,url"`
}

func NewApiController(sheetRepository contracts.SheetRepository, webhookDispatcher contracts.WebhookDispatcher) *ApiController {
	return &ApiController{
		SheetRepository:   sheetRepository,
		WebhookDispatcher: webhookDispatcher,
	}
}

func (api *ApiController) CreateSheetAction(c *gin.Context) {
	sheetId, err := api.SheetRepository.CreateSheet()

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusCreated, gin.H{"sheet_id": sheetId})
	}
}

func (api *ApiController) GetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	var response *contracts.Cell

	err := c.ShouldBindUri(&params)

	if err == nil {
		response, err = api.SheetRepository.GetCell(params.SheetId, params.CellId)
	}

	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusOK, response)
	}
}

func (api *ApiController) SetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SetCellRequest{}
	var cells []*contracts.Cell

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}

	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	cells, err = api.SheetRepository.SetCell(params.SheetId, params.CellId, *request.Value)

	if err != nil {
		c.JSON(errorStatus(err), contracts.Cell{
			Name:   params.CellId,
			Value:  *request.Value,
			Result: err.Error(),
		})
	} else {
		c.JSON(http.StatusCreated, SetCellResponse{
			Cell:         *cells[0],
			Recalculated: cells[1:],
		})
	}
}

func (api *ApiController) GetSheetAction(c *gin.Context) {
	params := SheetEndpointParams{}
	response := &contracts.CellList{}

	err := c.ShouldBindUri(&params)

	if err == nil {
		response, err = api.SheetRepository.GetCellList(params.SheetId)
	}

	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusOK, response)
	}
}

// SubscribeAction registers a webhook for a cell; the cell may still be empty
// but the sheet must exist.
func (api *ApiController) SubscribeAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SubscribeRequest{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	name, err := spreadsheet.NormalizeName(params.CellId)
	if err == nil {
		_, err = api.SheetRepository.GetCell(params.SheetId, name)
	}
	if err != nil && !errors.Is(err, contracts.CellNotFoundError) {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	api.WebhookDispatcher.SetWebhookUrl(strings.ToLower(params.SheetId), name, request.WebhookUrl)
	c.JSON(http.StatusCreated, gin.H{"name": name, "webhook_url": request.WebhookUrl})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, contracts.CellNotFoundError), errors.Is(err, contracts.SheetNotFoundError):
		return http.StatusNotFound
	case errors.Is(err, formula.FormatError),
		errors.Is(err, spreadsheet.InvalidNameError),
		errors.Is(err, spreadsheet.CircularDependencyError):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
