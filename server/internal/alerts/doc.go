// Package alerts implements the rule evaluation engine and webhook delivery
// for card alerting. Rules are evaluated against every rendered card;
// webhooks are delivered to Slack, Teams, or generic HTTP targets.
package alerts
