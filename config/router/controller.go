package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/akeren/waitlist-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

// NewRESTController groups handlers under mountPoint. prepare runs once, when
// the controller is mounted, and registers the routes.
func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: strings.ReplaceAll("/"+mountPoint, "//", "/"),
		prepare:    prepare,
	}
}

func normalizePath(controller *RESTController, relativePath string) string {
	path := controller.mountPoint
	if relativePath != "" {
		path += "/" + relativePath
	}

	path = "/" + path
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func routeKey(method, path string) string {
	return method + " " + path
}

// register claims method+path for controller and attaches an optional limiter.
// A route can belong to one controller only; a second claim is a wiring bug.
func (routerService *RouterService) register(controller *RESTController, method, path string, limiter ratelimit.RateLimiter) string {
	mountPoint := normalizePath(controller, path)
	key := routeKey(method, mountPoint)

	if owner, taken := routerService.handlerToControllerMap[key]; taken {
		panic(fmt.Sprintf("route %s is already registered by controller %q", key, owner.name))
	}
	routerService.handlerToControllerMap[key] = controller

	if limiter != nil {
		routerService.rateLimitOverrides[key] = limiter
	}

	controller.handlerCount++
	routerService.logger.Debug("Handler registered", "method", method, "path", mountPoint, "rate_limited", limiter != nil)
	return mountPoint
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)
		if result == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("handler returned no result").ToJSON())
			return
		}

		if result.IsError() {
			GetLogger(c).Debug("Handler returned an error result", "status", result.StatusCode, "path", c.FullPath())
		}
		c.JSON(result.StatusCode, result.Payload())
	}
}

func (routerService *RouterService) addHandler(
	controller *RESTController,
	method string,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares []MiddlewareFunc,
) {
	mountPoint := routerService.register(controller, method, path, limiter)
	routerService.engine.Handle(method, mountPoint, append(middlewares, createHandler(handler))...)
}

func (routerService *RouterService) AddGetHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(controller, http.MethodGet, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddPostHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(controller, http.MethodPost, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddDeleteHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(controller, http.MethodDelete, limiter, path, handler, middlewares)
}

// AddGetHTTPHandler mounts a plain net/http handler, such as a health probe,
// under the same registry and rate limiting as the other routes.
func (routerService *RouterService) AddGetHTTPHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler http.Handler) {
	mountPoint := routerService.register(controller, http.MethodGet, path, limiter)
	routerService.engine.GET(mountPoint, gin.WrapH(handler))
}

// RateLimitWith applies limiter to every route of the controller that has no
// limiter of its own.
func (controller *RESTController) RateLimitWith(routerService *RouterService, limiter ratelimit.RateLimiter) *RESTController {
	if _, taken := routerService.rateLimitOverrides[controller.mountPoint]; taken {
		panic(fmt.Sprintf("controller %q already has a rate limiter", controller.name))
	}
	routerService.rateLimitOverrides[controller.mountPoint] = limiter
	return controller
}

// MarkNoStore makes every response on the given controller path, including
// error and rate-limited ones, forbid caching by clients and intermediaries.
func (routerService *RouterService) MarkNoStore(controller *RESTController, path string) {
	routerService.noStorePaths[normalizePath(controller, path)] = struct{}{}
}
