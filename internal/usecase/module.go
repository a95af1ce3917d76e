package usecase

import "go.uber.org/fx"

// Module provides the restock use cases to the fx container.
var Module = fx.Provide(
	NewNegotiationUseCase,
	NewReviewUseCase,
	NewLogisticsUseCase,
	NewArrivalUseCase,
	NewQueryUseCase,
)
