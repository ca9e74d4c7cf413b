package cli

import (
	"context"
	"fmt"
)

// Analytics prints the website analytics overview. With the "geo" argument
// visitor locations are resolved to coordinates.
func (a *App) Analytics(ctx context.Context, args []string) error {
	withGeo := len(args) > 0 && args[0] == "geo"
	if len(args) > 0 && !withGeo {
		return fmt.Errorf("usage: analytics [geo]")
	}

	an, err := a.analytics.Overview(ctx)
	if err != nil {
		return err
	}

	w := newTable(a.out)
	fmt.Fprintf(w, "Online now\t%d\n", an.Online)
	fmt.Fprintf(w, "Unique visitors\t%d\n", an.UniqueVsReturning.Unique)
	fmt.Fprintf(w, "Returning visitors\t%d\n", an.UniqueVsReturning.Returning)

	fmt.Fprintln(w, "\nDATE\tVISITORS")
	for _, v := range an.VisitorsOverTime {
		fmt.Fprintf(w, "%s\t%d\n", v.Date, v.Visitors)
	}

	fmt.Fprintln(w, "\nDEVICE\tTOTAL")
	for _, d := range an.Devices {
		fmt.Fprintf(w, "%s\t%d\n", d.DeviceType, d.Total)
	}

	fmt.Fprintln(w, "\nPAGE\tVIEWS")
	for _, p := range an.PageViews {
		fmt.Fprintf(w, "%s\t%d\n", p.Page, p.Total)
	}

	if withGeo {
		fmt.Fprintln(w, "\nLOCATION\tVISITORS\tLAT\tLNG")
	} else {
		fmt.Fprintln(w, "\nLOCATION\tVISITORS")
	}
	for _, l := range an.Locations {
		place := fmt.Sprintf("%s, %s, %s", orDash(l.City), orDash(l.Region), orDash(l.Country))
		if !withGeo {
			fmt.Fprintf(w, "%s\t%d\n", place, l.Total)
			continue
		}
		if p := a.analytics.Geocode(ctx, l.City, l.Region, l.Country); p != nil {
			fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\n", place, l.Total, p.Lat, p.Lng)
		} else {
			fmt.Fprintf(w, "%s\t%d\t-\t-\n", place, l.Total)
		}
	}
	return w.Flush()
}
