package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"slate-api/domain"
)

const requestBodyMaxSize = 1 << 20

// Board defines the board operations the handlers require.
type Board interface {
	GetBoard(ctx context.Context) (*domain.Board, error)
	GetHistory(ctx context.Context) ([]domain.HistoryEntry, error)
	CreateTask(ctx context.Context, title, description string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id, title string, description *string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	MoveTask(ctx context.Context, id, sourceColumnID, destColumnID string, sourceIndex, destIndex int) error
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, board Board, logger *log.Logger) {
	e.GET("/api/board", getBoard(board, logger))
	e.GET("/api/history", getHistory(board))
	e.POST("/api/tasks", createTask(board))
	e.PUT("/api/tasks/:id", updateTask(board))
	e.DELETE("/api/tasks/:id", deleteTask(board))
	e.POST("/api/tasks/:id/move", moveTask(board, logger))
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getBoard(board Board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger, "/api/board")
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		loadStart := time.Now()
		b, loadErr := board.GetBoard(ctx)
		metrics.ObserveLoad(time.Since(loadStart))
		if loadErr != nil {
			metrics.SetErrorStage("storage")
			err = writeError(c, loadErr)
			return err
		}

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, b)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func getHistory(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, err := board.GetHistory(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, h)
	}
}

func createTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		task, err := board.CreateTask(c.Request().Context(), req.Title, req.Description)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func updateTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		task, err := board.UpdateTask(c.Request().Context(), c.Param("id"), req.Title, req.Description)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := board.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func moveTask(board Board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger, "/api/tasks/:id/move")
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		var req moveTaskRequest
		if decodeErr := decodeBody(c, &req); decodeErr != nil {
			metrics.SetErrorStage("decode_request")
			err = c.String(http.StatusBadRequest, "invalid body")
			return err
		}

		moveStart := time.Now()
		moveErr := board.MoveTask(ctx, c.Param("id"), req.SourceColumnID, req.DestColumnID, req.SourceIndex, req.DestIndex)
		metrics.ObserveMove(time.Since(moveStart))
		if moveErr != nil {
			metrics.SetErrorStage("move")
			err = writeError(c, moveErr)
			return err
		}
		err = c.JSON(http.StatusOK, moveTaskResponse{Success: true})
		return err
	}
}

func decodeBody(c echo.Context, out any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// writeError maps domain errors to HTTP statuses: validation and invalid
// column are the caller's fault (400), unknown task ids are 404, anything
// else is a persistence-level failure (500).
func writeError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	var nf *domain.NotFoundError
	var ic *domain.InvalidColumnError
	switch {
	case errors.As(err, &verr):
		return c.String(http.StatusBadRequest, verr.Error())
	case errors.As(err, &ic):
		return c.String(http.StatusBadRequest, ic.Error())
	case errors.As(err, &nf):
		return c.String(http.StatusNotFound, nf.Error())
	default:
		c.Logger().Error(err)
		return c.String(http.StatusInternalServerError, err.Error())
	}
}
