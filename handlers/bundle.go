package handlers

import (
	"hirewise/models"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	AdminTokenHash string

	// Provider endpoints
	CreateProviderHandler      gin.HandlerFunc
	ListProvidersHandler       gin.HandlerFunc
	GetProviderByIDHandler     gin.HandlerFunc
	UpdateProviderHandler      gin.HandlerFunc
	DeleteProviderHandler      gin.HandlerFunc
	GetProviderScoreHandler    gin.HandlerFunc
	GetProviderTrendHandler    gin.HandlerFunc
	ListProviderReviewsHandler gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler        gin.HandlerFunc
	CheckAvailabilityHandler    gin.HandlerFunc
	GetBookingHandler           gin.HandlerFunc
	ListMyBookingsHandler       gin.HandlerFunc
	ListProviderBookingsHandler gin.HandlerFunc
	UpdateBookingStatusHandler  gin.HandlerFunc
	RecordArrivalHandler        gin.HandlerFunc
	SubmitBookingReviewHandler  gin.HandlerFunc
	SubmitProviderRatingHandler gin.HandlerFunc

	// Service request endpoints
	CreateServiceRequestHandler   gin.HandlerFunc
	GetServiceRequestHandler      gin.HandlerFunc
	ListMyServiceRequestsHandler  gin.HandlerFunc
	ListProviderRequestsHandler   gin.HandlerFunc
	SendEstimateHandler           gin.HandlerFunc
	AcceptServiceRequestHandler   gin.HandlerFunc
	StartServiceRequestHandler    gin.HandlerFunc
	CompleteServiceRequestHandler gin.HandlerFunc
	CancelServiceRequestHandler   gin.HandlerFunc
	SubmitServiceReviewHandler    gin.HandlerFunc

	// Quote endpoints
	CreateQuoteRequestHandler gin.HandlerFunc
	ListOpenQuoteRequests     gin.HandlerFunc
	ListMyQuoteRequests       gin.HandlerFunc
	GetQuoteRequestHandler    gin.HandlerFunc
	SubmitQuoteHandler        gin.HandlerFunc
	AcceptQuoteHandler        gin.HandlerFunc
	RejectQuoteRequestHandler gin.HandlerFunc

	// Notification endpoints
	ListNotificationsHandler gin.HandlerFunc
	UnreadCountHandler       gin.HandlerFunc
	MarkNotificationRead     gin.HandlerFunc

	// Admin endpoints
	VerifyBookingHandler        gin.HandlerFunc
	RefreshAllScoresHandler     gin.HandlerFunc
	RefreshProviderScoreHandler gin.HandlerFunc
}

// NewHandlerBundle flattens the per-domain handlers into route-ready funcs.
func NewHandlerBundle(
	ph *ProviderHandler,
	bh *BookingHandler,
	srh *ServiceRequestHandler,
	qh *QuoteHandler,
	nh *NotificationHandler,
	ah *AdminHandler,
	adminTokenHash string,
) *HandlerBundle {
	return &HandlerBundle{
		AdminTokenHash: adminTokenHash,

		CreateProviderHandler:      ph.CreateProviderHandler,
		ListProvidersHandler:       ph.ListProvidersHandler,
		GetProviderByIDHandler:     ph.GetProviderByIDHandler,
		UpdateProviderHandler:      ph.UpdateProviderHandler,
		DeleteProviderHandler:      ph.DeleteProviderHandler,
		GetProviderScoreHandler:    ph.GetProviderScoreHandler,
		GetProviderTrendHandler:    ph.GetProviderTrendHandler,
		ListProviderReviewsHandler: ph.ListProviderReviewsHandler,

		CreateBookingHandler:        bh.CreateBookingHandler,
		CheckAvailabilityHandler:    bh.CheckAvailabilityHandler,
		GetBookingHandler:           bh.GetBookingHandler,
		ListMyBookingsHandler:       bh.ListMyBookingsHandler,
		ListProviderBookingsHandler: bh.ListProviderBookingsHandler,
		UpdateBookingStatusHandler:  bh.UpdateStatusHandler,
		RecordArrivalHandler:        bh.RecordArrivalHandler,
		SubmitBookingReviewHandler:  bh.SubmitReviewHandler,
		SubmitProviderRatingHandler: bh.SubmitProviderRatingHandler,

		CreateServiceRequestHandler:   srh.CreateHandler,
		GetServiceRequestHandler:      srh.GetHandler,
		ListMyServiceRequestsHandler:  srh.ListMineHandler,
		ListProviderRequestsHandler:   srh.ListForProviderHandler,
		SendEstimateHandler:           srh.SendEstimateHandler,
		AcceptServiceRequestHandler:   srh.AdvanceHandler(models.ActionAccept),
		StartServiceRequestHandler:    srh.AdvanceHandler(models.ActionStart),
		CompleteServiceRequestHandler: srh.AdvanceHandler(models.ActionComplete),
		CancelServiceRequestHandler:   srh.AdvanceHandler(models.ActionCancel),
		SubmitServiceReviewHandler:    srh.SubmitReviewHandler,

		CreateQuoteRequestHandler: qh.CreateHandler,
		ListOpenQuoteRequests:     qh.ListOpenHandler,
		ListMyQuoteRequests:       qh.ListMineHandler,
		GetQuoteRequestHandler:    qh.GetHandler,
		SubmitQuoteHandler:        qh.SubmitQuoteHandler,
		AcceptQuoteHandler:        qh.AcceptQuoteHandler,
		RejectQuoteRequestHandler: qh.RejectHandler,

		ListNotificationsHandler: nh.ListHandler,
		UnreadCountHandler:       nh.UnreadCountHandler,
		MarkNotificationRead:     nh.MarkReadHandler,

		VerifyBookingHandler:        ah.VerifyBookingHandler,
		RefreshAllScoresHandler:     ah.RefreshAllScoresHandler,
		RefreshProviderScoreHandler: ah.RefreshProviderScoreHandler,
	}
}
