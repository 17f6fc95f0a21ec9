package hma

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/hostmem/memutils"
)

// BuildStatsString returns a JSON document describing the allocator's current memory usage. If
// detailedMap is true and the strategy can enumerate its region, the document also lists every
// used and free range in address order.
func (a *Allocator) BuildStatsString(detailedMap bool) string {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	var stats memutils.DetailedStatistics
	a.calculateStatistics(&stats)

	writer := jwriter.NewWriter()
	rootObj := writer.Object()

	generalObj := rootObj.Name("General").Object()
	generalObj.Name("Name").String(a.name)
	generalObj.Name("Strategy").String(a.dispatch.strategyName)
	generalObj.Name("Flags").String(a.createFlags.String())
	generalObj.End()

	totalObj := rootObj.Name("Total").Object()
	printDetailedStatistics(&totalObj, &stats)
	totalObj.End()

	if detailedMap && a.dispatch.visitAllRegions != nil {
		a.printDetailedMap(&rootObj)
	}

	rootObj.End()
	return string(writer.Bytes())
}

func printDetailedStatistics(json *jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("RegionCount").Int(stats.RegionCount)
	json.Name("RegionBytes").Int(stats.RegionBytes)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
	json.Name("UnusedBytes").Int(stats.UnusedBytes())
	json.Name("UsedRangeCount").Int(stats.UsedRangeCount)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)

	if stats.UsedRangeCount > 0 {
		json.Name("UsedRangeSizeMax").Int(stats.UsedRangeSizeMax)
	}

	if stats.UnusedRangeCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
		json.Name("Fragmentation").Float64(stats.Fragmentation())
	}
}

func (a *Allocator) printDetailedMap(json *jwriter.ObjectState) {
	arrayState := json.Name("DetailedMap").Array()
	defer arrayState.End()

	_ = a.dispatch.visitAllRegions(a.handle, func(offset int, size int, free bool) error {
		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Offset").Int(offset)
		obj.Name("Size").Int(size)
		if free {
			obj.Name("Type").String("Free")
		} else {
			obj.Name("Type").String("Used")
		}

		return nil
	})
}
