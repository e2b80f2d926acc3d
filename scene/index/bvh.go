package index

import (
	"math"
	"time"

	"github.com/turner-renderer/renderer/log"
	"github.com/turner-renderer/renderer/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The BVH builder will not attempt to calculate split candidates
	// if the node bbox along an axis is less than this threshold.
	minSideLength float32 = 1e-3

	// If the split step (calculated as side length / (1024 * depth+1))
	// is less than this threshold the BVH builder will not evaluate
	// split candidates.
	minSplitStep float32 = 1e-5
)

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all primitives that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
}

// A bvh node. Leaf nodes reference a contiguous span of partitioned items.
type bvhNode struct {
	min types.Vec3
	max types.Vec3

	// Child node indices; both -1 for leaves.
	left, right int32

	// Offset and count into the partitioned item list; valid for leaves.
	firstItem, numItems int32
}

func (n *bvhNode) isLeaf() bool {
	return n.left == -1
}

// A split scoring strategy.
type ScoreStrategy interface {
	// Calculate a score for splitting workList at splitPoint along a particular Axis.
	ScoreSplit(workList []BoundedVolume, splitAxis Axis, splitPoint float32) (leftCount, rightCount int, score float32)

	// Calculate a score for all items in workList.
	ScorePartition(workList []BoundedVolume) (score float32)
}

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type buildStats struct {
	partitionedItems int
	totalItems       int
	nodes            int
	leafs            int
	maxDepth         int
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list.
	nodes []bvhNode

	// Partitioned item indices referenced by leaf nodes.
	items []int32

	// Maps a bounded volume back to its position in the original work list.
	itemIndex map[BoundedVolume]int32

	// Work lists with at most this many items become leaves without a split.
	minLeafItems int

	// The split scoring strategy to use.
	scoreStrategy ScoreStrategy

	stats buildStats
}

// Construct a BVH from a set of bounded volumes.
//
// The builder uses SAH for scoring splits:
// score = num_items * node bbox face area.
//
// The BVH builder will automatically generate leafs if the incoming work
// length is <= minLeafItems. Leaves produced by a split may hold fewer items.
//
// Split candidates are scored sequentially so that the generated tree is
// deterministic for identical inputs.
func buildBvh(workList []BoundedVolume, minLeafItems int, scoreStrategy ScoreStrategy) ([]bvhNode, []int32) {
	b := &builder{
		logger:        log.New("bvh"),
		nodes:         make([]bvhNode, 0),
		items:         make([]int32, 0, len(workList)),
		itemIndex:     make(map[BoundedVolume]int32, len(workList)),
		minLeafItems:  minLeafItems,
		scoreStrategy: scoreStrategy,
		stats: buildStats{
			totalItems: len(workList),
		},
	}

	for idx, item := range workList {
		b.itemIndex[item] = int32(idx)
	}

	start := time.Now()
	b.partition(workList, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes, b.items
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) int32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	node := bvhNode{
		min:   types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		max:   types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
		left:  -1,
		right: -1,
	}

	// Calculate bounding box for node
	for _, item := range workList {
		itemBBox := item.BBox()
		node.min = types.MinVec3(node.min, itemBBox[0])
		node.max = types.MaxVec3(node.max, itemBBox[1])
	}

	// Do we have enough items for partitioning? If not create a leaf
	if len(workList) <= b.minLeafItems {
		return b.createLeaf(&node, workList)
	}

	// Calc current node score
	var bestScore float32 = b.scoreStrategy.ScorePartition(workList)
	var bestSplit *splitScore = nil

	// Try partitioning along each axis and select the split with best score
	side := node.max.Sub(node.min)
	for axis := XAxis; axis <= ZAxis; axis++ {
		// Skip axis if bbox dimension is too small
		if side[axis] < minSideLength {
			continue
		}

		// We want the split steps to become more granular the deeper we go
		splitStep := side[axis] / (1024.0 * float32(depth+1))
		if splitStep < minSplitStep {
			continue
		}

		for splitPoint := node.min[axis]; splitPoint < node.max[axis]; splitPoint += splitStep {
			lCount, rCount, score := b.scoreStrategy.ScoreSplit(workList, axis, splitPoint)
			if score < bestScore {
				bestScore = score
				bestSplit = &splitScore{
					axis:       axis,
					splitPoint: splitPoint,
					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}
		}
	}

	// If we can't find a split that improves the current node score create a leaf
	if bestSplit == nil {
		return b.createLeaf(&node, workList)
	}

	// split work list into two sets
	leftWorkList := make([]BoundedVolume, bestSplit.leftCount)
	rightWorkList := make([]BoundedVolume, bestSplit.rightCount)
	leftIndex := 0
	rightIndex := 0
	for _, item := range workList {
		center := item.Center()
		if center[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList[leftIndex] = item
			leftIndex++
		} else {
			rightWorkList[rightIndex] = item
			rightIndex++
		}
	}

	// Add node to list
	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].left = leftNodeIndex
	b.nodes[nodeIndex].right = rightNodeIndex

	return nodeIndex
}

// Setup the given node item as a leaf node containing all items in the work
// list. Returns the index to the node in the bvh node array.
func (b *builder) createLeaf(node *bvhNode, workList []BoundedVolume) int32 {
	node.firstItem = int32(len(b.items))
	node.numItems = int32(len(workList))
	for _, item := range workList {
		b.items = append(b.items, b.itemIndex[item])
	}

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, *node)

	b.stats.leafs++
	b.stats.partitionedItems += len(workList)

	return nodeIndex
}

// A score implementation that ranks splits with the surface area heuristic.
type surfaceAreaHeuristic struct{}

// Running axis-aligned bounds accumulator used while scoring candidate splits.
type bounds struct {
	min, max types.Vec3
}

func newBounds() bounds {
	return bounds{
		min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

func (b *bounds) extend(bbox [2]types.Vec3) {
	b.min = types.MinVec3(b.min, bbox[0])
	b.max = types.MaxVec3(b.max, bbox[1])
}

// Half the surface area of the box. The factor of two cancels when comparing
// scores, so it is left out.
func (b bounds) halfArea() float32 {
	d := b.max.Sub(b.min)
	return d[0]*d[1] + d[1]*d[2] + d[0]*d[2]
}

// Score a candidate split plane: the sum over both sides of item count times
// bounding box area, lower is better. A split that leaves either side empty
// scores MaxFloat32 so it is never picked.
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	left, right := newBounds(), newBounds()
	for _, item := range workList {
		if item.Center()[axis] < splitPoint {
			leftCount++
			left.extend(item.BBox())
		} else {
			rightCount++
			right.extend(item.BBox())
		}
	}

	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	score = float32(leftCount)*left.halfArea() + float32(rightCount)*right.halfArea()
	return leftCount, rightCount, score
}

// Score an already partitioned work list: item count times bounding box area,
// or MaxFloat32 for an empty list.
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float32) {
	if len(workList) == 0 {
		return math.MaxFloat32
	}

	all := newBounds()
	for _, item := range workList {
		all.extend(item.BBox())
	}
	return float32(len(workList)) * all.halfArea()
}
