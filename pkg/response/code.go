package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists      = 10001
	ErrUserNotFound    = 10002
	ErrAuthFailed      = 10003
	ErrTokenInvalid    = 10004
	ErrNoPermission    = 10005
	ErrAddressNotFound = 10006

	// 餐厅模块错误 200xx
	ErrRestaurantNotFound = 20001
	ErrRestaurantNotOpen  = 20002
	ErrRestaurantExists   = 20003
	ErrCategoryNotFound   = 20004
	ErrProductNotFound    = 20005
	ErrProductUnavailable = 20006

	// 订单模块错误 300xx
	ErrOrderNotFound     = 30001
	ErrEmptyCart         = 30002
	ErrAddressRequired   = 30003
	ErrPaymentRequired   = 30004
	ErrProductMismatch   = 30005
	ErrInvalidTransition = 30006
	ErrCancelReason      = 30007

	// 评价模块错误 400xx
	ErrReviewExists      = 40001
	ErrOrderNotCompleted = 40002

	// 订阅模块错误 600xx
	ErrPlanNotFound     = 60001
	ErrInvalidSignature = 60002
	ErrCheckoutFailed   = 60003

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
