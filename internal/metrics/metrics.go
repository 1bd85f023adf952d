package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total number of posts created.",
	})
	CommentsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comments_submitted_total",
		Help: "Total number of comments submitted for moderation.",
	})
	NewsletterSignups = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsletter_signups_total",
		Help: "Total number of newsletter subscriptions, reactivations included.",
	})
)

func init() {
	prometheus.MustRegister(PostsCreated, CommentsSubmitted, NewsletterSignups)
}
