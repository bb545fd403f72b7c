package order

import "sort"

// Popularity is the number of enrollments of a course title.
type Popularity struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Stats feeds the admin dashboard.
type Stats struct {
	TotalRevenue     int          `json:"totalRevenue"`
	TotalOrders      int          `json:"totalOrders"`
	TotalUsers       int          `json:"totalUsers"`
	CoursePopularity []Popularity `json:"coursePopularity"`
}

// ComputeStats aggregates orders. Popularity is sorted by count desc, then title.
func ComputeStats(orders []Order, registeredUsers int) Stats {
	st := Stats{TotalOrders: len(orders), TotalUsers: registeredUsers}
	counts := make(map[string]int)
	for _, o := range orders {
		st.TotalRevenue += o.Total
		for _, it := range o.Items {
			counts[it.Title]++
		}
	}

	st.CoursePopularity = make([]Popularity, 0, len(counts))
	for title, n := range counts {
		st.CoursePopularity = append(st.CoursePopularity, Popularity{Title: title, Count: n})
	}
	sort.Slice(st.CoursePopularity, func(i, j int) bool {
		a, b := st.CoursePopularity[i], st.CoursePopularity[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Title < b.Title
	})
	return st
}
