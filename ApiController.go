package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/NathanaelEastwood/SheetAI-sub000/contracts"
	"github.com/NathanaelEastwood/SheetAI-sub000/engine"
	"github.com/gin-gonic/gin"
)

type ApiController struct {
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
	Canonicalizer     contracts.Canonicalizer
}

type CellEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
	CellId  string `uri:"cell_id" binding:"required"`
}

type SheetEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
}

type SetCellRequest struct {
	Value *string `json:"value" binding:"required"`
}

type SubscribeRequest struct {
	WebhookUrl string `json:"webhook_url" binding:"omitempty,url"`
}

type PasteRequest struct {
	Origin  string `json:"origin" binding:"required"`
	Columns int    `json:"columns" binding:"required,min=1"`
	Rows    int    `json:"rows" binding:"required,min=1"`
}

type PasteResponse struct {
	Cells []*contracts.Cell `json:"cells"`
	Error string            `json:"error,omitempty"`
}

func NewApiController(
	sheetRepository contracts.SheetRepository, webhookDispatcher contracts.WebhookDispatcher, canonicalizer contracts.Canonicalizer,
) *ApiController {
	return &ApiController{
		SheetRepository:   sheetRepository,
		WebhookDispatcher: webhookDispatcher,
		Canonicalizer:     canonicalizer,
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

// SetCellAction answers with the error text as result when the write is rejected,
// the sheet is left as it was in that case
func (api *ApiController) SetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SetCellRequest{}
	var response *contracts.Cell
	status := http.StatusBadRequest

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}

	if err == nil {
		response, _, err = api.SheetRepository.SetCell(params.SheetId, params.CellId, *request.Value)
		status = errorStatus(err)
	}

	if err != nil {
		if response == nil {
			response = &contracts.Cell{Address: params.CellId}
		}
		if request.Value != nil {
			response.Value = *request.Value
		}
		response.Result = err.Error()
		c.JSON(status, response)
	} else {
		c.JSON(http.StatusCreated, response)
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

// PasteAction copies a block of cells so that its top-left cell lands on cell_id
func (api *ApiController) PasteAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := PasteRequest{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}

	if err != nil {
		c.JSON(http.StatusBadRequest, PasteResponse{Cells: []*contracts.Cell{}, Error: err.Error()})
		return
	}

	changed, err := api.SheetRepository.Paste(params.SheetId, request.Origin, request.Columns, request.Rows, params.CellId)

	response := PasteResponse{Cells: changed}
	if response.Cells == nil {
		response.Cells = []*contracts.Cell{}
	}

	if err == nil {
		c.JSON(http.StatusCreated, response)
		return
	}

	response.Error = err.Error()
	c.JSON(errorStatus(err), response)
}

// SubscribeAction registers a webhook that receives the cell every time it is recomputed.
// An empty webhook_url removes the subscription.
func (api *ApiController) SubscribeAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SubscribeRequest{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}

	var coordinate engine.Coordinate
	if err == nil {
		coordinate, err = engine.AddressToCoordinate(api.Canonicalizer.CanonicalizeCellId(params.CellId))
		if err != nil {
			err = fmt.Errorf("cell_id `%s`: %w: %w", params.CellId, contracts.CellIdInvalidError, err)
		}
	}

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// notifications carry decoded addresses, so A01 and A1 share one subscription
	sheetId := api.Canonicalizer.CanonicalizeSheetId(params.SheetId)
	cellId := coordinate.String()
	api.WebhookDispatcher.SetWebhookUrl(sheetId, cellId, request.WebhookUrl)

	response, err := api.SheetRepository.GetCell(params.SheetId, cellId)
	if err != nil {
		response = &contracts.Cell{Address: cellId}
	}

	c.JSON(http.StatusCreated, gin.H{
		"cell":        response,
		"webhook_url": api.WebhookDispatcher.GetWebhookUrl(sheetId, cellId),
	})
}

// errorStatus maps repository and engine errors onto HTTP statuses
func errorStatus(err error) int {
	switch {
	case errors.Is(err, contracts.CellNotFoundError), errors.Is(err, contracts.SheetNotFoundError):
		return http.StatusNotFound
	case errors.Is(err, contracts.CellIdInvalidError):
		return http.StatusBadRequest
	case errors.Is(err, engine.ExpressionError), errors.Is(err, engine.CellOutOfBoundsError):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
