// Package closestaffaccount implements closing a staff account. The username becomes free again.
package closestaffaccount
